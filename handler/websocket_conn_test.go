package handler

import (
	"testing"

	"chat-sync-app/dto"

	"github.com/stretchr/testify/assert"
)

func TestConnDropsWritesAfterClose(t *testing.T) {
	conn := &wsConn{}
	conn.close()

	assert.ErrorIs(t, conn.write(dto.IntentResult{Action: dto.ActionPostMessage}), errConnClosed)
	assert.NotPanics(t, func() { conn.reply(dto.ActionPostMessage)(true) })
}
