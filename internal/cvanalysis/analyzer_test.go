package cvanalysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sals-backend/internal/apperr"
)

type fakeOCR struct {
	fields map[string]string
	err    error
}

func (f fakeOCR) Extract(context.Context, Upload) (map[string]string, error) {
	return f.fields, f.err
}

type fakeLLM struct {
	reply string
	err   error
	user  string
}

func (f *fakeLLM) Complete(_ context.Context, _, user string) (string, error) {
	f.user = user
	return f.reply, f.err
}

var sampleUpload = Upload{Filename: "cv.txt", Content: []byte("Nora Ali\nSenior Accountant")}

func TestAnalyzeUsesModelReply(t *testing.T) {
	llm := &fakeLLM{reply: "```json\n" + `{"score": 88, "suggestions": [
		{"type":"success","text":"1"},{"type":"warning","text":"2"},{"type":"warning","text":"3"},
		{"type":"error","text":"4"},{"type":"error","text":"5"},{"type":"error","text":"6"}],
		"strengths":["clear"],"weaknesses":["short"],"summary":"good"}` + "\n```"}
	analyzer := NewAnalyzer(fakeOCR{fields: map[string]string{"Name": "Nora Ali"}}, llm)

	report := analyzer.Analyze(context.Background(), sampleUpload)

	require.NoError(t, report.Degraded)
	got := report.Analysis
	assert.EqualValues(t, 88, got.Score)
	assert.Len(t, got.Suggestions, 5)
	assert.Equal(t, []string{"clear"}, got.Strengths)
	assert.Equal(t, "good", got.Summary)
	assert.Equal(t, map[string]string{"Name": "Nora Ali"}, got.ParsedData)
	assert.Equal(t, llm.reply, got.FullAnalysis)
	assert.Contains(t, llm.user, "Senior Accountant")
	assert.Contains(t, llm.user, `"Name":"Nora Ali"`)
}

func TestAnalyzeDefaultsMissingScore(t *testing.T) {
	analyzer := NewAnalyzer(fakeOCR{fields: map[string]string{}}, &fakeLLM{reply: `{"summary":"ok"}`})

	got := analyzer.Analyze(context.Background(), sampleUpload).Analysis

	assert.EqualValues(t, 80, got.Score)
	assert.NotNil(t, got.Suggestions)
	assert.Equal(t, "ok", got.Summary)
}

func TestAnalyzeFallsBackOnInvalidJSON(t *testing.T) {
	analyzer := NewAnalyzer(fakeOCR{fields: map[string]string{}}, &fakeLLM{reply: "السيرة جيدة"})

	report := analyzer.Analyze(context.Background(), sampleUpload)

	require.NoError(t, report.Degraded)
	got := report.Analysis
	assert.EqualValues(t, 80, got.Score)
	assert.Len(t, got.Suggestions, 3)
	assert.Equal(t, []string{"معلومات أساسية متوفرة"}, got.Strengths)
	assert.Equal(t, "السيرة جيدة", got.FullAnalysis)
}

func TestAnalyzeHeuristicWhenModelFails(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		score  int64
		first  Suggestion
	}{
		{
			name:   "nothing extracted",
			fields: map[string]string{},
			score:  75,
			first:  Suggestion{Type: SuggestionError, Text: "يجب إضافة الاسم بوضوح"},
		},
		{
			name: "everything extracted",
			fields: map[string]string{
				"Name": "Nora", "Email": "n@sals.sa", "Phone": "050",
				"ExperienceCompany": "Aramco", "EducationDegree": "BSc",
			},
			score: 90,
			first: Suggestion{Type: SuggestionSuccess, Text: "الاسم واضح ومحدد"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(fakeOCR{fields: tt.fields}, &fakeLLM{err: errors.New("timeout")})

			report := analyzer.Analyze(context.Background(), sampleUpload)

			assert.Error(t, report.Degraded)
			got := report.Analysis
			assert.Equal(t, tt.score, got.Score)
			assert.Len(t, got.Suggestions, 5)
			assert.Equal(t, tt.first, got.Suggestions[0])
			assert.Empty(t, got.FullAnalysis)
			assert.Equal(t, tt.fields, got.ParsedData)
		})
	}
}

func TestAnalyzeSurvivesOCRFailure(t *testing.T) {
	ocrErr := apperr.Collaborator(nil, "ocr returned 500")
	analyzer := NewAnalyzer(fakeOCR{err: ocrErr}, &fakeLLM{err: errors.New("down")})

	report := analyzer.Analyze(context.Background(), sampleUpload)

	assert.ErrorIs(t, report.Degraded, apperr.ErrCollaborator)
	assert.NotNil(t, report.Analysis.ParsedData)
	assert.EqualValues(t, 75, report.Analysis.Score)
}

func TestFileTextTruncates(t *testing.T) {
	long := strings.Repeat("س", maxPromptRunes+10)

	assert.Equal(t, maxPromptRunes, len([]rune(fileText([]byte(long)))))
	assert.Equal(t, "abc", fileText([]byte("a\xffbc")))
	assert.Equal(t, "", fileText(nil))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}
