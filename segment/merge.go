/*
DESCRIPTION
  merge.go provides conversion of per-frame label streams into interval
  tables with a minimum interval length.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segment

// Interval types given by VisitIntervals.
const (
	TypeVisit      = "visit"
	TypeTransition = "transition"
)

// Interval is the frame range [Start, End). Type is empty for view intervals.
type Interval struct {
	Start, End int
	Type       string
}

// Len returns the number of frames in the interval.
func (i Interval) Len() int { return i.End - i.Start }

// changePoints returns the indices at which labels differ from their
// predecessor.
func changePoints[T comparable](labels []T) []int {
	var cps []int
	for i := 1; i < len(labels); i++ {
		if labels[i] != labels[i-1] {
			cps = append(cps, i)
		}
	}
	return cps
}

// ViewIntervals splits labels into runs of equal values and drops every run
// shorter than minLength. Dropped runs are not absorbed by their neighbours,
// so the result may have gaps.
func ViewIntervals[T comparable](labels []T, minLength int) []Interval {
	if len(labels) == 0 {
		return nil
	}
	bounds := append([]int{0}, changePoints(labels)...)
	bounds = append(bounds, len(labels))

	var out []Interval
	for i := 0; i < len(bounds)-1; i++ {
		iv := Interval{Start: bounds[i], End: bounds[i+1]}
		if iv.Len() < minLength {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// VisitIntervals splits labels into runs and coalesces short runs until no
// run is shorter than minLength. While a short run exists, the first one loses
// its start boundary, and its end boundary unless that ends the stream. The
// outer bounds of the surviving boundary list are then replaced by 0 and
// len(labels). Each interval is typed by the label at its start.
func VisitIntervals(labels []bool, minLength int) []Interval {
	if len(labels) == 0 {
		return nil
	}
	bounds := append([]int{0}, changePoints(labels)...)
	bounds = append(bounds, len(labels))

	for {
		i := firstShortGap(bounds, minLength)
		if i < 0 {
			break
		}
		bounds = append(bounds[:i], bounds[i+1:]...)
		if i != len(bounds)-1 {
			bounds = append(bounds[:i], bounds[i+1:]...)
		}
	}

	var inner []int
	if len(bounds) > 2 {
		inner = bounds[1 : len(bounds)-1]
	}

	out := make([]Interval, 0, len(inner)+1)
	start := 0
	for _, end := range append(inner, len(labels)) {
		out = append(out, Interval{Start: start, End: end, Type: visitType(labels[start])})
		start = end
	}
	return out
}

// firstShortGap returns the index of the first boundary followed by a gap
// shorter than minLength, or -1.
func firstShortGap(bounds []int, minLength int) int {
	for i := 0; i < len(bounds)-1; i++ {
		if bounds[i+1]-bounds[i] < minLength {
			return i
		}
	}
	return -1
}

func visitType(inVisit bool) string {
	if inVisit {
		return TypeVisit
	}
	return TypeTransition
}
