package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/samber/lo"
)

// CSVHeader CSV表头
var CSVHeader = []string{
	"step", "time", "ego_set_speed", "cav_enable",
	"ego_speed", "ego_acceleration", "ACTOR_ego_x",
	"lead_exists", "ACTOR_lead_lon", "ACTOR_lead_lon_speed", "ACTOR_lead_x", "ACTOR_lead_speed",
	"torque_cmd", "brake_pos", "mode", "min_safe_distance", "gap", "gap_error",
}

// CSVSink CSV文件输出
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVSink 创建CSV输出，写入表头
func NewCSVSink(w io.Writer) (*CSVSink, error) {
	s := &CSVSink{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	if err := s.w.Write(CSVHeader); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCSVFileSink 创建CSV文件输出
func NewCSVFileSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	s, err := NewCSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	log.Infof("write trace to %s", path)
	return s, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(v bool) string {
	return lo.Ternary(v, "1", "0")
}

func (s *CSVSink) Write(r Record) error {
	return s.w.Write([]string{
		strconv.FormatInt(int64(r.Step), 10),
		formatFloat(r.T),
		formatFloat(r.SetSpeed),
		formatBool(r.CavOn),
		formatFloat(r.EgoSpeed),
		formatFloat(r.EgoAccel),
		formatFloat(r.EgoPosition),
		formatBool(r.LeadExists),
		formatFloat(r.LeadX),
		formatFloat(r.LeadVX),
		formatFloat(r.LeadY),
		formatFloat(r.LeadVY),
		formatFloat(r.Torque),
		formatFloat(r.Brake),
		r.Mode,
		formatFloat(r.MinSafeDistance),
		formatFloat(r.Gap),
		formatFloat(r.GapError),
	})
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
