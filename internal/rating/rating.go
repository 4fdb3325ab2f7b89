package rating

import (
	"math"
	"strconv"

	"github.com/psmak4/reprint-ui/internal/entity"
	"github.com/psmak4/reprint-ui/internal/review"
)

// Summary is the locally computed rating signal: derived from the
// approved reviews visible on the book page, nothing else.
type Summary struct {
	Count     int
	Average   float64 // one decimal; meaningless while Count == 0
	Breakdown [5]Bucket
}

type Bucket struct {
	Star    int
	Count   int
	Percent int // round(count/total*100)
}

// NoReviews is the display sentinel for a work without approved
// reviews, distinct from an average of 0.0.
const NoReviews = "no reviews"

func (s Summary) HasReviews() bool { return s.Count > 0 }

func (s Summary) DisplayAverage() string {
	if s.Count == 0 {
		return NoReviews
	}
	return strconv.FormatFloat(s.Average, 'f', 1, 64)
}

// Model is the book page rating display: two independently sourced
// signals rendered side by side. They cover disjoint populations, so
// folding them into one number would misstate sample size; no blending,
// ever.
type Model struct {
	Local    Summary
	External *entity.AggregateRating // as supplied by the server, nil when absent
}

// Build assembles the display model: local figures aggregated from the
// given reviews, the external aggregate passed through unmodified.
func Build(reviews []entity.Review, external *entity.AggregateRating) Model {
	return Model{Local: Aggregate(reviews), External: external}
}

// Aggregate computes the local summary over the approved subset of
// reviews. Pure.
func Aggregate(reviews []entity.Review) Summary {
	var sum, count int
	var counts [5]int
	for _, r := range reviews {
		if r.Status != review.StatusApproved {
			continue
		}
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		sum += r.Rating
		count++
		counts[r.Rating-1]++
	}

	s := Summary{Count: count}
	for i := range s.Breakdown {
		s.Breakdown[i] = Bucket{Star: i + 1, Count: counts[i]}
		if count > 0 {
			s.Breakdown[i].Percent = int(math.Round(float64(counts[i]) / float64(count) * 100))
		}
	}
	if count > 0 {
		s.Average = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return s
}
