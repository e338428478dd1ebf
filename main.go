package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/cycle"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/output"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/task"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/randengine"
	"github.com/tsinghua-fib-lab/cacc-sim-oss/utils/rpcutil"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	// 模拟任务名，主要用于输出的数据库表名前缀
	job = flag.String("job", "job0", "the name of the whole simulation task")
	// RPC监听地址，设置为空则不提供RPC服务
	listenAddr = flag.String("listen", "", "RPC listening address (empty means no RPC), e.g. :51102")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 数据加载input的缓存地址，设置为空则禁用缓存功能
	cacheDir = flag.String("cache", "data/", "input cache dir path (empty means disable cache)")
	// 只生成随机工况并写入指定CSV文件
	genCycle = flag.String("gen-cycle", "", "generate a random drive cycle to the csv file and exit")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (trace debug info warn error critical off)")

	log = logrus.WithField("module", "cacc")
)

// loadConfig 获取配置
// 说明：配置文件与Base64配置二选一，都未指定时使用默认配置
func loadConfig() config.Config {
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else if *genCycle == "" {
		log.Panic("config file or config data must be specified")
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	return c
}

func serve(addr string, t *task.Context) *http.Server {
	mux := http.NewServeMux()
	t.Register(mux, rpcutil.HandlerOptions()...)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("rpc listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("failed to serve: %v", err)
		}
	}()
	return srv
}

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	c := loadConfig()
	if *genCycle != "" {
		// 生成工况时总步数无意义
		c.Control.Step.Total = max(c.Control.Step.Total, 1)
	}
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		log.Panicf("invalid config: %v", err)
	}
	log.Infof("%+v", rc.All)

	if *genCycle != "" {
		cy := cycle.Generate(rc.All.Cycle, randengine.New(rc.All.Cycle.Seed))
		if err := cycle.SaveFile(*genCycle, cy); err != nil {
			log.Panicf("failed to write cycle: %v", err)
		}
		log.Infof("cycle written to %s", *genCycle)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in, err := input.Init(rc.All, *cacheDir)
	if err != nil {
		log.Panicf("input load err: %v", err)
	}
	sink, err := output.New(ctx, *job, rc.All.Output)
	if err != nil {
		log.Panicf("output init err: %v", err)
	}
	t := task.NewContext(*job, rc, in, sink)

	var srv *http.Server
	if *listenAddr != "" {
		srv = serve(*listenAddr, t)
	}
	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("job %s failed: %v", *job, err)
	}
	if srv != nil {
		// 回放结束后继续为外部车辆提供服务，直到收到退出信号
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	for _, r := range t.Results() {
		if !r.Passed() {
			os.Exit(1)
		}
	}
}
