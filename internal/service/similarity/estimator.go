// Package similarity изолирует оценку схожести за интерфейсом, чтобы
// настоящий алгоритм сравнения текстов можно было подставить, не трогая
// логику приема загрузок.
package similarity

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/RubachokBoss/report-portal/internal/models"
)

type Document struct {
	FileName string
	Content  []byte
}

type Estimate struct {
	Percentage int
	Matches    []models.MatchSet
}

type Estimator interface {
	Estimate(ctx context.Context, doc Document) (*Estimate, error)
}

// randomEstimator — заглушка детектора: равномерный процент в [0, 50)
// и один фиксированный набор совпадений для демонстрации сравнения.
type randomEstimator struct {
	rand *rand.Rand
}

func NewRandomEstimator(source rand.Source) Estimator {
	return &randomEstimator{
		rand: rand.New(source),
	}
}

const placeholderLineCount = 20

var placeholderMatchedLines = []int{2, 5, 9, 14}

func (e *randomEstimator) Estimate(_ context.Context, doc Document) (*Estimate, error) {
	leftLines := make([]string, 0, placeholderLineCount)
	for i := 1; i <= placeholderLineCount; i++ {
		leftLines = append(leftLines, fmt.Sprintf("Line %d: sample content from %s", i, doc.FileName))
	}

	matched := make(map[int]bool, len(placeholderMatchedLines))
	for _, idx := range placeholderMatchedLines {
		matched[idx] = true
	}

	rightLines := make([]string, 0, placeholderLineCount)
	for i, line := range leftLines {
		if matched[i+1] {
			rightLines = append(rightLines, line+" (matched)")
		} else {
			rightLines = append(rightLines, line)
		}
	}

	indices := append([]int(nil), placeholderMatchedLines...)

	return &Estimate{
		Percentage: e.rand.Intn(50),
		Matches: []models.MatchSet{
			{
				SourceName:   "Example Source A",
				LeftLines:    leftLines,
				RightLines:   rightLines,
				LeftMatches:  indices,
				RightMatches: indices,
			},
		},
	}, nil
}
