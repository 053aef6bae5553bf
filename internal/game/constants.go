package game

import "time"

// Health
const (
	MaxHealth     = 100
	ContactDamage = 10
	HitCooldown   = 2 * time.Second
)

// Status bands (inclusive lower bounds)
const (
	CautionBelow = 60
	DangerBelow  = 30
)

// Pursuit
const (
	ContactRadiusSq   = 1000.0 // squared mat units, about 31.6 units
	EnemyTickInterval = 200 * time.Millisecond
	Deadband          = 10 // degrees
	PivotSpeed        = 2
	ChaseSpeed        = 6
)
