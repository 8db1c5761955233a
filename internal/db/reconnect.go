package db

import (
	"log"
	"time"

	"github.com/jcalvinowens/planeyeller/pkg/config"
)

const maxReconnectDelay = time.Minute

// ConnectWithRetry retries Connect with exponential backoff, so startup
// survives a database that is still coming up. maxRetries of 0 retries
// forever.
func ConnectWithRetry(cfg config.Database, maxRetries int, initialDelay time.Duration, logger *log.Logger) (*DB, error) {
	delay := initialDelay

	for attempt := 1; ; attempt++ {
		db, err := Connect(cfg)
		if err == nil {
			return db, nil
		}

		if maxRetries > 0 && attempt >= maxRetries {
			logger.Printf("giving up on database after %d attempts", attempt)
			return nil, err
		}

		logger.Printf("database connection attempt %d failed: %v, retrying in %v",
			attempt, err, delay)
		time.Sleep(delay)

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}
