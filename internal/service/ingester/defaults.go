package ingester

import "time"

const (
	defaultWorkerCount = 5
	defaultBlockCount  = 1
	defaultFetchRatio  = 100

	providerCooldown = 30 * time.Second
)
