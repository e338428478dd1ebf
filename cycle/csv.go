package cycle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header CSV表头
var Header = []string{"Time", "Speed (m/s)"}

// ReadCSV 从CSV读取工况
// 功能：读取"Time,Speed (m/s)"两列数据，首行为表头
// 说明：采样间隔取前两个采样点的时间差，只有一个点时使用defaultInterval
func ReadCSV(r io.Reader, defaultInterval float64) (*Cycle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cycle: read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrEmpty
	}
	points := make([]Point, 0, len(rows)-1)
	for i, row := range rows[1:] {
		t, err1 := strconv.ParseFloat(row[0], 64)
		v, err2 := strconv.ParseFloat(row[1], 64)
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("cycle: bad row %d: %w", i+2, err)
		}
		points = append(points, Point{T: t, Speed: v})
	}
	interval := defaultInterval
	if len(points) > 1 {
		interval = round(points[1].T-points[0].T, 6)
	}
	return New(interval, points)
}

// WriteCSV 将工况写为CSV
func WriteCSV(w io.Writer, c *Cycle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, p := range c.Points {
		if err := writer.Write([]string{
			strconv.FormatFloat(p.T, 'f', -1, 64),
			strconv.FormatFloat(p.Speed, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// LoadFile 从CSV文件读取工况
func LoadFile(path string, defaultInterval float64) (*Cycle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, defaultInterval)
}

// SaveFile 将工况保存为CSV文件
func SaveFile(path string, c *Cycle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
