package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"pipecacu"
	"pipecacu/config"
	"pipecacu/lahi/debug"
	"pipecacu/metrics"
	"pipecacu/result"
	"pipecacu/types"
)

func main() {
	var (
		confPath = flag.String("config", "", "配置文件路径, 默认按 $PIPECACU_CONFIG、./pipecacu.yaml 查找")
		in       = flag.String("in", "temporary_data.json", "拓扑文档")
		out      = flag.String("out", "", "结果文档, 空为标准输出")
		chart    = flag.String("chart", "", "迭代曲线 HTML")
		plotPath = flag.String("plot", "", "残差曲线图片 (png/svg/pdf 由扩展名决定)")
		record   = flag.String("record", "", "迭代历史 JSON")
		metric   = flag.String("metrics", "", "指标文本文件, 覆盖配置")
		serve    = flag.String("serve", "", "计算完成后在该地址发布迭代曲线")
		timeout  = flag.Duration("timeout", time.Minute, "计算超时")
	)
	flag.Parse()
	os.Exit(run(*confPath, *in, *out, *chart, *plotPath, *record, *metric, *serve, *timeout))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, _, err := config.LoadFromPath(path)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

func run(confPath, in, out, chart, plotPath, record, metric, serve string, timeout time.Duration) int {
	cfg, err := loadConfig(confPath)
	if err != nil {
		log.Error("加载配置失败", "err", err)
		return 2
	}
	logger := cfg.Logger()
	if metric == "" {
		metric = cfg.Metrics
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	store, closeCatalog, err := cfg.OpenCatalog(ctx)
	if err != nil {
		logger.Error("打开管件库失败", "err", err)
		return 2
	}
	defer closeCatalog()

	nw := pipecacu.NewNetwork(cfg, store)
	nw.Logger = logger

	// 调试输出
	var debugs types.Debugs
	charts := &debug.Charts{}
	if chart != "" || serve != "" {
		debugs = append(debugs, charts)
	}
	var plot *debug.Plot
	if plotPath != "" {
		plot = &debug.Plot{Format: formatOf(plotPath)}
		debugs = append(debugs, plot)
	}
	var rec *debug.Record
	if record != "" {
		rec = &debug.Record{}
		debugs = append(debugs, rec)
	}
	var observer *metrics.Observer
	if metric != "" {
		observer = metrics.NewObserver()
		debugs = append(debugs, observer)
	}
	if len(debugs) > 0 {
		nw.Debug = debugs
	}

	code := 0
	if err := nw.Load(in); err != nil {
		logger.Error("读取拓扑文档失败", "file", in, "err", err)
		code = 1
		writeResult(logger, out, result.Failure(err))
	} else {
		doc, err := nw.Run(ctx)
		if err != nil {
			code = 1
		}
		writeResult(logger, out, doc)
	}

	if nw.Graph != nil {
		charts.Link(nw.Graph)
		if rec != nil {
			rec.Link(nw.Graph)
		}
	}
	save(logger, chart, charts.Render)
	if plot != nil {
		save(logger, plotPath, plot.Render)
	}
	if rec != nil {
		save(logger, record, rec.Render)
	}
	if observer != nil {
		if err := observer.WriteFile(metric); err != nil {
			logger.Error("写出指标失败", "file", metric, "err", err)
		}
	}
	if serve != "" {
		logger.Info("发布迭代曲线", "addr", serve)
		http.HandleFunc("/", charts.Handler)
		if err := http.ListenAndServe(serve, nil); err != nil {
			logger.Error("发布失败", "err", err)
			return 1
		}
	}
	return code
}

// formatOf 由扩展名得到图片格式
func formatOf(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff":
		return ext
	}
	return "png"
}

func writeResult(logger *log.Logger, out string, doc *result.Document) {
	var err error
	if out == "" {
		err = doc.Render(os.Stdout)
	} else {
		err = doc.Save(out)
	}
	if err != nil {
		logger.Error("写出结果失败", "err", err)
	}
}

func save(logger *log.Logger, filename string, render func(io.Writer) error) {
	if filename == "" {
		return
	}
	f, err := os.Create(filename)
	if err != nil {
		logger.Error("创建文件失败", "file", filename, "err", err)
		return
	}
	defer f.Close()
	if err := render(f); err != nil {
		logger.Error("输出失败", "file", filename, "err", err)
	}
}
