package connection

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FBConnection initialises the Firebase app from a service-account file and
// returns the Firestore and Cloud Messaging clients.
func FBConnection(ctx context.Context, credentialsFile string) (*firestore.Client, *messaging.Client, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	msg, err := app.Messaging(ctx)
	if err != nil {
		fs.Close()
		return nil, nil, fmt.Errorf("error getting Messaging client: %w", err)
	}
	return fs, msg, nil
}
