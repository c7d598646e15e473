package shortener

// Observer receives domain counters. *metrics.Metrics satisfies it.
type Observer interface {
	CacheLookup(hit bool)
	LinkCreated()
	CodeCollision()
	AccessRecorded()
}

type nopObserver struct{}

func (nopObserver) CacheLookup(bool) {}
func (nopObserver) LinkCreated()     {}
func (nopObserver) CodeCollision()   {}
func (nopObserver) AccessRecorded()  {}
