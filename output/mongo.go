package output

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const writeTimeout = 30 * time.Second

// MongoSink MongoDB输出
// 功能：按批次InsertMany写入记录，Close时写入剩余记录并断开连接
type MongoSink struct {
	client    *mongo.Client
	coll      *mongo.Collection
	batchSize int
	buf       []Record
}

// NewMongoSink 创建MongoDB输出
// 参数：uri-连接字符串，db-数据库名，col-集合名，batchSize-批量写入大小
func NewMongoSink(ctx context.Context, uri, db, col string, batchSize int) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	log.Infof("write trace to mongo %s.%s", db, col)
	return &MongoSink{
		client:    client,
		coll:      client.Database(db).Collection(col),
		batchSize: max(batchSize, 1),
		buf:       make([]Record, 0, batchSize),
	}, nil
}

func (s *MongoSink) Write(r Record) error {
	s.buf = append(s.buf, r)
	if len(s.buf) >= s.batchSize {
		return s.flush()
	}
	return nil
}

func (s *MongoSink) flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	docs := lo.Map(s.buf, func(r Record, _ int) any { return r })
	s.buf = s.buf[:0]
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %d records: %w", len(docs), err)
	}
	return nil
}

func (s *MongoSink) Close() error {
	err := s.flush()
	if derr := s.client.Disconnect(context.Background()); err == nil {
		err = derr
	}
	return err
}
