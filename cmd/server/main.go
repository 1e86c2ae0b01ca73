package main

import "chat-sync-app/config"

func main() {
	config.RunServer()
}
