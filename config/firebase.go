package config

import (
	"context"
	"fmt"

	"chat-sync-app/cloud"
	"chat-sync-app/config/common"

	firebase "firebase.google.com/go/v4"
)

// firebaseServices lazily creates the Firebase app and the clients taken
// from it, so the SQL backends never touch Google credentials.
type firebaseServices struct {
	cfg *common.Config
	app *firebase.App
}

func (f *firebaseServices) App(ctx context.Context) (*firebase.App, error) {
	if f.app != nil {
		return f.app, nil
	}
	projectID, credentialsFile, _, storageBucket := f.cfg.GetFirebaseConfig()
	app, err := cloud.NewApp(ctx, projectID, credentialsFile, storageBucket)
	if err != nil {
		return nil, err
	}
	f.app = app
	return app, nil
}

func (f *firebaseServices) Store(ctx context.Context) (*cloud.FirestoreStore, func() error, error) {
	app, err := f.App(ctx)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open firestore: %w", err)
	}
	return cloud.NewFirestoreStore(client), client.Close, nil
}

func (f *firebaseServices) Auth(ctx context.Context) (*cloud.FirebaseAuth, error) {
	app, err := f.App(ctx)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firebase auth: %w", err)
	}
	_, _, apiKey, _ := f.cfg.GetFirebaseConfig()
	return cloud.NewFirebaseAuth(client, apiKey), nil
}

func (f *firebaseServices) Blobs(ctx context.Context) (*cloud.BucketStore, error) {
	app, err := f.App(ctx)
	if err != nil {
		return nil, err
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("open firebase storage: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("open storage bucket: %w", err)
	}
	_, _, _, bucketName := f.cfg.GetFirebaseConfig()
	return cloud.NewBucketStore(bucket, bucketName), nil
}
