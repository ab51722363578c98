package usecase

import "time"

type nowFunc func() time.Time

var defaultNow nowFunc = time.Now
