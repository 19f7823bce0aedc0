package survey

import (
	"strconv"
	"strings"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// TimestampLayout is the millisecond-precision UTC layout used for submission times
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var csvHeader = []string{
	"Image URL",
	"ID",
	"Submitted At",
	"Attendee Type",
	"AI Level",
	"Used Azure AI",
	"Engaging",
	"Clear",
	"Useful Demos",
	"Right Level",
	"Learned Something",
	"Recommend Score",
	"Best Part",
	"Improve",
	"Future Topics",
	"Uncertain",
}

// RenderCSV renders records as CSV text, one row per record in the given order.
// The header row is emitted bare; every data cell is double-quoted with
// embedded quotes doubled. Rows are separated by "\n" with no trailing newline.
func RenderCSV(records []*entities.SurveyRecord) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, r := range records {
		b.WriteByte('\n')
		for i, cell := range csvRow(r) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}

func csvRow(r *entities.SurveyRecord) []string {
	uncertain := "No"
	if r.Uncertain {
		uncertain = "Yes"
	}
	fb := r.PresentationFeedback
	return []string{
		r.ImagePath,
		r.ID,
		r.SubmittedAt.UTC().Format(TimestampLayout),
		string(r.AttendeeType),
		string(r.AILevel),
		string(r.UsedAzureAI),
		strconv.Itoa(fb.Engaging),
		strconv.Itoa(fb.Clear),
		strconv.Itoa(fb.UsefulDemos),
		strconv.Itoa(fb.RightLevel),
		strconv.Itoa(fb.LearnedSomething),
		strconv.Itoa(r.RecommendScore),
		r.BestPart,
		r.Improve,
		r.FutureTopics,
		uncertain,
	}
}
