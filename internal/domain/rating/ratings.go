package rating

// Ratings maps competitor names to their current rating within one query.
// Reading an unseen name inserts BaselineRating for it.
type Ratings struct {
	byName map[string]float64
}

// NewRatings returns an empty rating table.
func NewRatings() *Ratings {
	return &Ratings{byName: make(map[string]float64)}
}

// Get returns name's rating, inserting the baseline on first sight.
func (r *Ratings) Get(name string) float64 {
	v, ok := r.byName[name]
	if !ok {
		v = BaselineRating
		r.byName[name] = v
	}
	return v
}

// Set stores name's rating.
func (r *Ratings) Set(name string, v float64) {
	r.byName[name] = v
}

// Len is the number of competitors seen so far.
func (r *Ratings) Len() int {
	return len(r.byName)
}
