package geoms

type Segment struct {
	From Point
	To   Point
}

func (s Segment) Length() float64 {
	return s.From.Distance(s.To)
}

// Split cuts the segment into n equal consecutive pieces.
func (s Segment) Split(n int) []Segment {
	if n < 1 {
		n = 1
	}
	ret := make([]Segment, 0, n)
	for i := range n {
		ret = append(ret, Segment{
			From: s.From.Lerp(s.To, float64(i)/float64(n)),
			To:   s.From.Lerp(s.To, float64(i+1)/float64(n)),
		})
	}
	return ret
}
