package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"site-task-manager/utilities"
)

// InitializeFirebase cria o app do Firebase a partir do arquivo de credenciais.
func InitializeFirebase(ctx context.Context, credentialsPath string) (*firebase.App, error) {
	if credentialsPath == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_PATH não está definido")
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar Firebase: %w", err)
	}

	utilities.LogInfo("Firebase inicializado com sucesso")
	return app, nil
}

// retorna o cliente de autenticação
func GetAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente de Auth: %w", err)
	}
	return authClient, nil
}

func GetFirestoreClient(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao obter cliente do Firestore: %w", err)
	}
	return firestoreClient, nil
}
