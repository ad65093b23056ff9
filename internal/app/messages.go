package app

import "time"

// TickMsg advances the activity spinner and refreshes the snapshot.
type TickMsg time.Time
