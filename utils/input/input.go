package input

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/cycle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/randengine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logrus.WithField("module", "input")

const downloadTimeout = time.Minute

// Input 输入数据
// 功能：存储仿真所需的所有输入数据
type Input struct {
	Cycle *cycle.Cycle // 本车工况
}

// Init 加载数据
// 功能：根据配置初始化并加载所有输入数据
// 参数：config-配置对象（已填充默认值），cacheDir-缓存目录
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 未配置input.cycle：按cycle配置生成随机工况
// 2. 配置了文件路径：从CSV文件加载
// 3. 否则从MongoDB下载，下载结果缓存到{cacheDir}/{db}.{col}.csv，之后优先从缓存读取
func Init(config config.Config, cacheDir string) (res *Input, err error) {
	res = &Input{}
	path := config.Input.Cycle
	interval := config.Control.Step.Interval
	switch {
	case path == nil:
		res.Cycle = cycle.Generate(config.Cycle, randengine.New(config.Cycle.Seed))
	case path.File != "":
		if res.Cycle, err = cycle.LoadFile(path.File, interval); err != nil {
			return nil, fmt.Errorf("failed to load cycle from file: %w", err)
		}
	default:
		if !preCheckCache(cacheDir) {
			cacheDir = ""
		}
		var download func() (*cycle.Cycle, error)
		if !path.OnlyCache {
			download = func() (*cycle.Cycle, error) {
				return downloadCycle(config.Input.URI, *path, interval)
			}
		}
		log.Infof("start fetching from %s.%s", path.DB, path.Col)
		if res.Cycle, err = loadWithCache(cacheDir, *path, interval, download); err != nil {
			return nil, fmt.Errorf("failed to load with cache: %w", err)
		}
		log.Infof("finish fetching from %s.%s", path.DB, path.Col)
	}
	log.Infof("cycle: %d points, interval %vs, max speed %vm/s", res.Cycle.Len(), res.Cycle.Interval, res.Cycle.MaxSpeed())
	return res, nil
}

// loadWithCache 带缓存的加载
// 功能：优先读取缓存文件，缓存不存在时调用download并写回缓存
// 参数：cacheDir-缓存目录（为空表示禁用缓存），inputPath-输入路径配置，download-下载函数（为nil表示只读缓存）
func loadWithCache(
	cacheDir string,
	inputPath config.InputPath,
	interval float64,
	download func() (*cycle.Cycle, error),
) (*cycle.Cycle, error) {
	var cachePath string
	if cacheDir != "" {
		cachePath = filepath.Join(cacheDir, inputPath.GetCachePath())
		c, err := cycle.LoadFile(cachePath, interval)
		if err == nil {
			log.Infof("load %s.%s from cache %s", inputPath.DB, inputPath.Col, cachePath)
			return c, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Warnf("ignore bad cache %s: %v", cachePath, err)
		}
	}
	if download == nil {
		return nil, fmt.Errorf("no cache for %s.%s and download is disabled", inputPath.DB, inputPath.Col)
	}
	c, err := download()
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := cycle.SaveFile(cachePath, c); err != nil {
			log.Errorf("failed to write cache %s: %v", cachePath, err)
		}
	}
	return c, nil
}

// downloadCycle 从MongoDB下载工况
// 功能：读取集合中所有{t, speed}文档，按t升序排列
func downloadCycle(uri string, inputPath config.InputPath, interval float64) (*cycle.Cycle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(inputPath.DB).Collection(inputPath.Col)
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "t", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find %s.%s: %w", inputPath.DB, inputPath.Col, err)
	}
	var points []cycle.Point
	if err := cur.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("decode %s.%s: %w", inputPath.DB, inputPath.Col, err)
	}
	if len(points) > 1 {
		interval = points[1].T - points[0].T
	}
	return cycle.New(interval, points)
}
