package database

import (
	"MenuScout/config/environment"
	"context"
	"encoding/base64"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

var FirebaseApp *firebase.App
var FirestoreClient *firestore.Client

// InitFirebase initializes the Firestore client. The scraper works without
// Firestore (menus are always written to disk); when the credentials are not
// configured the client stays nil and persistence is skipped.
func InitFirebase() {
	// Get Base64 encoded credentials from env
	encodedCredentials := environment.GetFirebaseKey()
	if encodedCredentials == "" {
		log.Println("⚠️  FIREBASE_CREDENTIALS_BASE64 not set, Firestore persistence disabled")
		return
	}

	// Decode Base64 string
	decodedCredentials, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		log.Fatalf("Failed to decode Firebase credentials: %v", err)
	}

	// Get Project ID from environment variables
	projectID := environment.GetFirebaseProjectID()
	if projectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID environment variable is missing")
	}

	ctx := context.Background()
	firestoreOpt := option.WithCredentialsJSON(decodedCredentials)

	config := &firebase.Config{
		ProjectID: projectID,
	}
	app, err := firebase.NewApp(ctx, config, firestoreOpt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Firestore: %v", err)
	}
	FirebaseApp = app
	log.Println("Firebase Firestore initialized successfully")

	// Initialize Firestore client
	FirestoreClient, err = app.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
}

// GetFirestoreClient returns the Firestore client instance (nil when disabled)
func GetFirestoreClient() *firestore.Client {
	return FirestoreClient
}
