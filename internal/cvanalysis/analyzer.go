// Package cvanalysis scores uploaded résumés. Field extraction runs through an
// OCR model, scoring through a language model, and a rule-based score covers
// the case where the language model is unavailable. Analysis never fails: the
// collaborator errors that were downgraded are returned alongside the result.
package cvanalysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"

	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

const (
	maxSuggestions    = 5
	maxPromptRunes    = 3000
	defaultLLMScore   = 80
	heuristicBase     = 75
	experienceBonus   = 10
	educationBonus    = 5
	maxScore          = 100
	unreadableContent = "Unable to read file content"
)

const (
	SuggestionSuccess = "success"
	SuggestionWarning = "warning"
	SuggestionError   = "error"
)

type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Suggestion struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Analysis struct {
	Score        int64             `json:"score"`
	Suggestions  []Suggestion      `json:"suggestions"`
	Strengths    []string          `json:"strengths"`
	Weaknesses   []string          `json:"weaknesses"`
	Summary      string            `json:"summary"`
	ParsedData   map[string]string `json:"parsed_data"`
	FullAnalysis string            `json:"full_analysis,omitempty"`
}

// Report is an Analysis plus the collaborator failures it recovered from.
type Report struct {
	Analysis Analysis
	Degraded error
}

type Extractor interface {
	Extract(ctx context.Context, upload Upload) (map[string]string, error)
}

type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Analyzer struct {
	ocr Extractor
	llm Completer
}

func NewAnalyzer(ocr Extractor, llm Completer) *Analyzer {
	return &Analyzer{ocr: ocr, llm: llm}
}

func (a *Analyzer) Analyze(ctx context.Context, upload Upload) Report {
	log := logging.WithContext(ctx).WithField("module", "cvanalysis").WithField("filename", upload.Filename)
	var degraded *multierror.Error

	parsed, err := a.ocr.Extract(ctx, upload)
	if err != nil {
		log.WithError(err).Warn("ocr failed, continuing without extracted fields")
		degraded = multierror.Append(degraded, err)
		parsed = map[string]string{}
	}

	reply, err := a.llm.Complete(ctx, systemPrompt, userPrompt(parsed, fileText(upload.Content)))
	if err != nil {
		log.WithError(err).Warn("language model failed, using heuristic score")
		degraded = multierror.Append(degraded, err)
		return Report{Analysis: heuristicAnalysis(parsed), Degraded: degraded.ErrorOrNil()}
	}

	analysis, ok := parseReply(reply)
	if !ok {
		log.Warn("language model reply is not valid JSON, using default analysis")
		analysis = defaultAnalysis()
	}
	analysis.ParsedData = parsed
	analysis.FullAnalysis = reply

	return Report{Analysis: analysis, Degraded: degraded.ErrorOrNil()}
}

type llmReply struct {
	Score       *models.Amount `json:"score"`
	Suggestions []Suggestion   `json:"suggestions"`
	Strengths   []string       `json:"strengths"`
	Weaknesses  []string       `json:"weaknesses"`
	Summary     string         `json:"summary"`
}

func parseReply(reply string) (Analysis, bool) {
	var parsed llmReply
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &parsed); err != nil {
		return Analysis{}, false
	}

	score := int64(defaultLLMScore)
	if parsed.Score != nil {
		score = parsed.Score.Int()
	}

	return Analysis{
		Score:       score,
		Suggestions: capSuggestions(nonNil(parsed.Suggestions)),
		Strengths:   nonNil(parsed.Strengths),
		Weaknesses:  nonNil(parsed.Weaknesses),
		Summary:     parsed.Summary,
	}, true
}

func defaultAnalysis() Analysis {
	return Analysis{
		Score: defaultLLMScore,
		Suggestions: []Suggestion{
			{Type: SuggestionSuccess, Text: "تم تحليل السيرة الذاتية بنجاح"},
			{Type: SuggestionWarning, Text: "يُنصح بمراجعة التنسيق والتأكد من وضوح المعلومات"},
			{Type: SuggestionWarning, Text: "تأكد من إضافة الكلمات المفتاحية المناسبة لمجالك"},
		},
		Strengths:  []string{"معلومات أساسية متوفرة"},
		Weaknesses: []string{"يحتاج تحسين في التنسيق"},
		Summary:    "تم تحليل السيرة الذاتية وتقديم اقتراحات للتحسين",
	}
}

type fieldRule struct {
	label   string
	present Suggestion
	missing Suggestion
	bonus   int64
}

var heuristicRules = []fieldRule{
	{"Name", Suggestion{SuggestionSuccess, "الاسم واضح ومحدد"}, Suggestion{SuggestionError, "يجب إضافة الاسم بوضوح"}, 0},
	{"Email", Suggestion{SuggestionSuccess, "البريد الإلكتروني متوفر"}, Suggestion{SuggestionWarning, "يُنصح بإضافة البريد الإلكتروني"}, 0},
	{"Phone", Suggestion{SuggestionSuccess, "رقم الهاتف متوفر"}, Suggestion{SuggestionWarning, "يُنصح بإضافة رقم الهاتف"}, 0},
	{"ExperienceCompany", Suggestion{SuggestionSuccess, "الخبرات العملية موضحة"}, Suggestion{SuggestionWarning, "يُنصح بإضافة الخبرات العملية"}, experienceBonus},
	{"EducationDegree", Suggestion{SuggestionSuccess, "المؤهلات التعليمية واضحة"}, Suggestion{SuggestionWarning, "يُنصح بإضافة المؤهلات التعليمية"}, educationBonus},
}

func heuristicAnalysis(parsed map[string]string) Analysis {
	score := int64(heuristicBase)
	suggestions := make([]Suggestion, 0, len(heuristicRules))

	for _, rule := range heuristicRules {
		if parsed[rule.label] != "" {
			suggestions = append(suggestions, rule.present)
			score += rule.bonus
		} else {
			suggestions = append(suggestions, rule.missing)
		}
	}

	return Analysis{
		Score:       min(score, maxScore),
		Suggestions: capSuggestions(suggestions),
		Strengths:   []string{"تم استخراج البيانات الأساسية"},
		Weaknesses:  []string{"يحتاج تحسين في بعض الجوانب"},
		Summary:     "تم تحليل السيرة الذاتية باستخدام تقنيات استخراج البيانات",
		ParsedData:  parsed,
	}
}

func capSuggestions(s []Suggestion) []Suggestion {
	if len(s) > maxSuggestions {
		return s[:maxSuggestions]
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// fileText decodes the upload as UTF-8, dropping invalid bytes, and keeps
// the first maxPromptRunes characters.
func fileText(content []byte) string {
	text := strings.ToValidUTF8(string(content), "")
	if text == "" && len(content) > 0 {
		return unreadableContent
	}
	if utf8.RuneCountInString(text) <= maxPromptRunes {
		return text
	}
	return string([]rune(text)[:maxPromptRunes])
}

const systemPrompt = "أنت خبير في تحليل السير الذاتية. قدم تحليلاً مفصلاً ومفيداً باللغة العربية."

func userPrompt(parsed map[string]string, content string) string {
	extracted, err := json.Marshal(parsed)
	if err != nil {
		extracted = []byte("{}")
	}

	return fmt.Sprintf(`أنت خبير في تحليل السير الذاتية باللغة العربية. قم بتحليل السيرة الذاتية التالية وقدم تقييماً شاملاً.

البيانات المستخرجة:
%s

محتوى السيرة الذاتية:
%s

يرجى تقديم:
1. درجة تقييم من 100
2. 3-5 اقتراحات محددة للتحسين
3. تحليل نقاط القوة والضعف

قدم الإجابة بتنسيق JSON كالتالي:
{
    "score": 85,
    "suggestions": [
        {"type": "success", "text": "نقطة قوة"},
        {"type": "warning", "text": "اقتراح للتحسين"},
        {"type": "error", "text": "نقطة تحتاج إصلاح"}
    ],
    "strengths": ["نقطة قوة 1", "نقطة قوة 2"],
    "weaknesses": ["نقطة ضعف 1", "نقطة ضعف 2"],
    "summary": "ملخص التحليل"
}
`, extracted, content)
}
