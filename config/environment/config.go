package environment

import (
	"os"
	"strconv"
	"time"
)

func GetFirebaseKey() string {
	return os.Getenv("FIREBASE_CREDENTIALS_BASE64")
}

func GetFirebaseProjectID() string {
	return os.Getenv("FIREBASE_PROJECT_ID")
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return port
}

// GetOutputDir is where scraped menu JSON files land
func GetOutputDir() string {
	dir := os.Getenv("MENU_OUTPUT_DIR")
	if dir == "" {
		dir = "."
	}
	return dir
}

// Headless controls whether Chrome runs without a visible window. Defaults to
// true; set CHROME_HEADLESS=false when debugging selectors locally.
func Headless() bool {
	return os.Getenv("CHROME_HEADLESS") != "false"
}

// GetNavigationSettle is how long a page gets to render after navigation
// before the payload locator starts polling. Storefront pages hydrate their
// menus client side, so this is deliberately generous.
func GetNavigationSettle() time.Duration {
	return durationFromEnv("NAVIGATION_SETTLE_SECONDS", 50*time.Second)
}

// GetWaitTimeout bounds every single element wait in the pipeline.
func GetWaitTimeout() time.Duration {
	return durationFromEnv("ELEMENT_WAIT_SECONDS", 60*time.Second)
}

// GetInteractionSettle is the pause after clicks and dismissals, giving the
// overlay animations time to finish before the next query.
func GetInteractionSettle() time.Duration {
	return durationFromEnv("INTERACTION_SETTLE_SECONDS", 5*time.Second)
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
