package output

import (
	"context"

	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
)

// New 根据配置创建输出目标
// 功能：按配置组合CSV文件与MongoDB输出，均未配置时返回空的MultiSink
// 参数：job-任务名（MongoDB集合名缺省为{job}.trace），c-输出配置
func New(ctx context.Context, job string, c config.OutputPath) (Sink, error) {
	sinks := MultiSink{}
	if c.File != "" {
		s, err := NewCSVFileSink(c.File)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if c.URI != "" {
		col := c.Col
		if col == "" {
			col = job + ".trace"
		}
		s, err := NewMongoSink(ctx, c.URI, c.DB, col, c.BatchSize)
		if err != nil {
			sinks.Close()
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}
