package entity

import "time"

var testNow = time.Date(2024, time.October, 1, 12, 0, 0, 0, time.UTC)
