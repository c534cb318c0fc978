package library

import (
	"fmt"
	"regexp"
	"strconv"

	"mihonorg/internal/failure"
)

// AllInOne requests a single chapter holding every image.
const AllInOne = 0

// Chapter is a contiguous slice [Start, End) of a collection's sorted images.
type Chapter struct {
	Number int
	Name   string
	Start  int
	End    int
}

// Len returns the number of images in the chapter.
func (c Chapter) Len() int { return c.End - c.Start }

// Partition splits total items into chapters of perChapter items; the last
// chapter may be shorter. perChapter == AllInOne yields one chapter, a
// negative size is rejected, and total == 0 yields no chapters.
func Partition(total, perChapter int) ([]Chapter, error) {
	if perChapter < 0 {
		return nil, failure.Wrap(
			failure.ErrValidation,
			"partition",
			"validate size",
			fmt.Sprintf("images per chapter must be positive, got %d", perChapter),
			nil,
		)
	}
	if total <= 0 {
		return nil, nil
	}
	if perChapter == AllInOne {
		return []Chapter{{Number: 1, Name: ChapterName(1), Start: 0, End: total}}, nil
	}

	count := (total + perChapter - 1) / perChapter
	chapters := make([]Chapter, 0, count)
	for k := 1; k <= count; k++ {
		start := (k - 1) * perChapter
		chapters = append(chapters, Chapter{
			Number: k,
			Name:   ChapterName(k),
			Start:  start,
			End:    min(start+perChapter, total),
		})
	}
	return chapters, nil
}

// ChapterName formats a chapter directory name, zero-padded to three digits.
func ChapterName(number int) string {
	return fmt.Sprintf("Chapter %03d", number)
}

var chapterNamePattern = regexp.MustCompile(`^Chapter (\d{3,})$`)

// ParseChapterName reverses ChapterName.
func ParseChapterName(name string) (int, bool) {
	match := chapterNamePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
