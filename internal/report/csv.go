package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/FOX2920/Automated-CV-Scoring/internal/scoring"
)

// TimeLayout is the application time format of the report.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// utf8BOM lets spreadsheet tools detect the encoding of Vietnamese text.
const utf8BOM = "\ufeff"

type row struct {
	JobID         string `csv:"Job ID"`
	JobName       string `csv:"Job Name"`
	CandidateID   string `csv:"Candidate ID"`
	CandidateName string `csv:"Candidate Name"`
	CVURL         string `csv:"CV URL"`
	AppliedAt     string `csv:"Ngày ứng tuyển"`
	Fit           int    `csv:"Mức độ phù hợp"`
	Technical     int    `csv:"Kỹ năng kỹ thuật"`
	Experience    int    `csv:"Kinh nghiệm"`
	Education     int    `csv:"Trình độ học vấn"`
	SoftSkills    int    `csv:"Kỹ năng mềm"`
	Overall       string `csv:"Điểm tổng quát"`
	Summary       string `csv:"Tóm tắt"`
	Link          string `csv:"Link ứng viên"`
}

func toRow(record scoring.Record) row {
	return row{
		JobID:         record.JobID,
		JobName:       record.JobName,
		CandidateID:   record.CandidateID,
		CandidateName: record.CandidateName,
		CVURL:         record.CVURL,
		AppliedAt:     record.AppliedAt.Format(TimeLayout),
		Fit:           record.Fit,
		Technical:     record.Technical,
		Experience:    record.Experience,
		Education:     record.Education,
		SoftSkills:    record.SoftSkills,
		Overall:       strconv.FormatFloat(record.Overall, 'f', -1, 64),
		Summary:       record.Summary,
		Link:          record.Link,
	}
}

func (r row) record() (scoring.Record, error) {
	appliedAt, err := time.Parse(TimeLayout, r.AppliedAt)
	if err != nil {
		return scoring.Record{}, fmt.Errorf("parse application time %q: %w", r.AppliedAt, err)
	}

	overall, err := strconv.ParseFloat(r.Overall, 64)
	if err != nil {
		return scoring.Record{}, fmt.Errorf("parse overall score %q: %w", r.Overall, err)
	}

	return scoring.Record{
		JobID:         r.JobID,
		JobName:       r.JobName,
		CandidateID:   r.CandidateID,
		CandidateName: r.CandidateName,
		CVURL:         r.CVURL,
		AppliedAt:     appliedAt,
		Fit:           r.Fit,
		Technical:     r.Technical,
		Experience:    r.Experience,
		Education:     r.Education,
		SoftSkills:    r.SoftSkills,
		Overall:       overall,
		Summary:       r.Summary,
		Link:          r.Link,
	}, nil
}

// Encode writes the records as CSV with a header row, prefixed with a UTF-8 BOM.
func Encode(w io.Writer, records []scoring.Record) error {
	rows := make([]row, 0, len(records))
	for _, record := range records {
		rows = append(rows, toRow(record))
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}

	return nil
}

// Decode reads records written by Encode. The BOM is optional.
func Decode(r io.Reader) ([]scoring.Record, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}

	var rows []row
	if err := gocsv.Unmarshal(br, &rows); err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}

	records := make([]scoring.Record, 0, len(rows))
	for i, r := range rows {
		record, err := r.record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// WriteFile replaces the file at path with the encoded records.
func WriteFile(path string, records []scoring.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := Encode(f, records); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	return nil
}
