package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "time/tzdata"

	"github.com/FOX2920/Automated-CV-Scoring/internal/scoring"
)

func sampleRecord(t *testing.T) scoring.Record {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	return scoring.Record{
		JobID:         "42",
		JobName:       "Kỹ sư phần mềm",
		CandidateID:   "7",
		CandidateName: "Nguyễn Thị Hương",
		CVURL:         "https://cdn.example/cv.pdf",
		AppliedAt:     time.Date(2026, 10, 18, 14, 5, 9, 0, loc),
		Fit:           8,
		Technical:     7,
		Experience:    9,
		Education:     6,
		SoftSkills:    8,
		Overall:       7.6,
		Summary:       "Ứng viên có kinh nghiệm, \"phù hợp\", giao tiếp tốt",
		Link:          "https://hiring.base.vn/opening/42?candidate=7",
	}
}

func TestEncodeWritesBOMAndHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []scoring.Record{sampleRecord(t)}))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	lines := strings.Split(strings.TrimPrefix(out, "\ufeff"), "\n")
	assert.Equal(t, "Job ID,Job Name,Candidate ID,Candidate Name,CV URL,Ngày ứng tuyển,Mức độ phù hợp,"+
		"Kỹ năng kỹ thuật,Kinh nghiệm,Trình độ học vấn,Kỹ năng mềm,Điểm tổng quát,Tóm tắt,Link ứng viên", lines[0])
	assert.Contains(t, lines[1], "2026-10-18 14:05:09+07:00")
	assert.Contains(t, lines[1], ",7.6,")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	record := sampleRecord(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []scoring.Record{record}))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	got := decoded[0]
	assert.True(t, record.AppliedAt.Equal(got.AppliedAt))
	got.AppliedAt = record.AppliedAt
	assert.Equal(t, record, got)
}

func TestDecodeWithoutBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []scoring.Record{sampleRecord(t)}))

	decoded, err := Decode(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff")))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Nguyễn Thị Hương", decoded[0].CandidateName)
}

func TestDecodeRejectsBadTime(t *testing.T) {
	input := "Job ID,Ngày ứng tuyển,Điểm tổng quát\n1,yesterday,7\n"

	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.csv")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than nothing"), 0o644))

	require.NoError(t, WriteFile(path, []scoring.Record{sampleRecord(t)}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, err := Decode(f)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "42", decoded[0].JobID)
}
