package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"github.com/FOX2920/Automated-CV-Scoring/internal/ai"
)

const (
	KeyFit        = "muc_do_phu_hop"
	KeyTechnical  = "ky_nang_ky_thuat"
	KeyExperience = "kinh_nghiem"
	KeyEducation  = "trinh_do_hoc_van"
	KeySoftSkills = "ky_nang_mem"
	KeySummary    = "tom_tat"

	minScore = 0
	maxScore = 10
)

type criterion struct {
	key         string
	description string
}

// Order matters: it is the order of the report columns.
var criteria = []criterion{
	{
		key: KeyFit,
		description: `Đánh giá độ phù hợp tổng thể của ứng viên với vị trí (0-10):
- Kinh nghiệm trực tiếp với các dự án/công việc tương tự
- Thời gian làm việc trong ngành/lĩnh vực
- Các thành tích và kết quả công việc trước đây
- Sự phù hợp với văn hóa và môi trường làm việc
- Tiềm năng phát triển trong tương lai`,
	},
	{
		key: KeyTechnical,
		description: `Đánh giá kỹ năng kỹ thuật theo yêu cầu công việc (0-10):
- Mức độ thành thạo các công nghệ/công cụ yêu cầu
- Kiến thức chuyên môn và kỹ thuật
- Khả năng áp dụng kiến thức vào thực tế
- Các chứng chỉ kỹ thuật liên quan
- Các dự án đã thực hiện thể hiện kỹ năng`,
	},
	{
		key: KeyExperience,
		description: `Đánh giá kinh nghiệm làm việc (0-10):
- Số năm kinh nghiệm trong vị trí tương tự
- Quy mô và độ phức tạp của các dự án đã làm
- Vai trò và trách nhiệm trong các dự án
- Kinh nghiệm làm việc với các công nghệ/công cụ liên quan
- Thành tích và kết quả đạt được`,
	},
	{
		key: KeyEducation,
		description: `Đánh giá trình độ học vấn và đào tạo (0-10):
- Bằng cấp phù hợp với yêu cầu công việc
- Các khóa học và chứng chỉ chuyên môn
- Thành tích học tập và nghiên cứu
- Các hoạt động phát triển chuyên môn liên tục
- Kiến thức chuyên ngành và nền tảng lý thuyết`,
	},
	{
		key: KeySoftSkills,
		description: `Đánh giá kỹ năng mềm và khả năng làm việc (0-10):
- Kỹ năng giao tiếp và thuyết trình
- Khả năng làm việc nhóm và phối hợp
- Tư duy giải quyết vấn đề
- Khả năng quản lý thời gian và tổ chức công việc
- Sự chủ động và khả năng thích nghi`,
	},
}

const summaryDescription = `Tóm tắt đánh giá tổng quan về ứng viên trong 2 hoặc 3 câu có thể bao gồm:
- Điểm mạnh nổi bật nhất
- Những điểm cần cải thiện
- Đánh giá tiềm năng phát triển`

func requiredKeys() []string {
	keys := make([]string, 0, len(criteria)+1)
	for _, c := range criteria {
		keys = append(keys, c.key)
	}
	return append(keys, KeySummary)
}

// ResponseSchema is the structured output schema sent with every request.
func ResponseSchema() *genai.Schema {
	lower, upper := float64(minScore), float64(maxScore)

	properties := make(map[string]*genai.Schema, len(criteria)+1)
	for _, c := range criteria {
		properties[c.key] = &genai.Schema{
			Type:        genai.TypeInteger,
			Description: c.description,
			Minimum:     &lower,
			Maximum:     &upper,
		}
	}
	properties[KeySummary] = &genai.Schema{
		Type:        genai.TypeString,
		Description: summaryDescription,
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   requiredKeys(),
	}
}

// validationSchema mirrors ResponseSchema as a JSON Schema document. The model
// is asked for the shape, the answer is still checked locally.
func validationSchema() map[string]any {
	properties := make(map[string]any, len(criteria)+1)
	for _, c := range criteria {
		properties[c.key] = map[string]any{
			"type":    "integer",
			"minimum": minScore,
			"maximum": maxScore,
		}
	}
	properties[KeySummary] = map[string]any{
		"type":      "string",
		"minLength": 1,
	}

	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
		"required":   requiredKeys(),
	}
}

var rubricSchema = gojsonschema.NewGoLoader(validationSchema())

// ValidationError lists every rubric violation found in a model answer.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "rubric response is invalid: " + strings.Join(e.Problems, "; ")
}

type rubricResponse struct {
	Fit        int    `json:"muc_do_phu_hop"`
	Technical  int    `json:"ky_nang_ky_thuat"`
	Experience int    `json:"kinh_nghiem"`
	Education  int    `json:"trinh_do_hoc_van"`
	SoftSkills int    `json:"ky_nang_mem"`
	Summary    string `json:"tom_tat"`
}

// parseResponse validates the raw answer against the rubric and converts it.
func parseResponse(raw string) (*ai.Evaluation, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("empty rubric response")
	}

	result, err := gojsonschema.Validate(rubricSchema, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if !result.Valid() {
		verr := &ValidationError{}
		for _, desc := range result.Errors() {
			verr.Problems = append(verr.Problems, desc.String())
		}
		return nil, verr
	}

	var resp rubricResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return &ai.Evaluation{
		Fit:        resp.Fit,
		Technical:  resp.Technical,
		Experience: resp.Experience,
		Education:  resp.Education,
		SoftSkills: resp.SoftSkills,
		Summary:    strings.TrimSpace(resp.Summary),
		Raw:        raw,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
