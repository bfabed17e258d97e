// Package pipecacu 滑油管网稳态水力计算.
//
// 读取界面保存的拓扑文档, 换算为 SI 单位模型, 构建网络图并迭代求解各节点压力和管路流量.
package pipecacu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"pipecacu/catalog"
	"pipecacu/config"
	"pipecacu/graph"
	"pipecacu/lahi"
	"pipecacu/load"
	"pipecacu/result"
	"pipecacu/types"
)

// Network 管网计算
type Network struct {
	Config  *config.Config
	Logger  *log.Logger
	Catalog catalog.Store // 可为 nil, 此时管件只能在文档中给出 k
	Debug   types.Debug   // 可为 nil

	Doc      *load.Document
	Model    *load.Model
	Graph    *graph.Graph
	Solution *lahi.Solution
}

// NewNetwork 初始化, cfg 为 nil 时使用默认配置
func NewNetwork(cfg *config.Config, store catalog.Store) *Network {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Network{Config: cfg, Logger: cfg.Logger(), Catalog: store}
}

// Load 加载拓扑文档
func (nw *Network) Load(filename string) (err error) {
	nw.Doc, err = load.LoadFile(filename)
	return err
}

// LoadReader 从流加载拓扑文档
func (nw *Network) LoadReader(r io.Reader) (err error) {
	nw.Doc, err = load.LoadReader(r)
	return err
}

// Export 导出拓扑文档
func (nw *Network) Export(filename string) error {
	if nw.Doc == nil {
		return fmt.Errorf("未加载拓扑文档")
	}
	data, err := json.MarshalIndent(nw.Doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// Build 换算模型并构建网络图
func (nw *Network) Build(ctx context.Context) error {
	if nw.Doc == nil {
		return types.Errorf(types.KindInvalidDoc, "未加载拓扑文档")
	}
	fluids, err := nw.Config.FluidTable()
	if err != nil {
		return types.Wrap(types.KindInvalidParam, err, "油品表无效")
	}
	nw.Model, err = load.NewLoader(nw.Catalog, fluids).Convert(ctx, nw.Doc)
	if err != nil {
		return err
	}
	nw.Graph, err = graph.Build(nw.Model.Nodes, nw.Model.Pipes, nw.Config.GraphOptions(nw.Logger))
	if err != nil {
		return err
	}
	nw.Logger.Debug("拓扑构建完成", "nodes", len(nw.Graph.Nodes), "pipes", len(nw.Graph.Pipes), "indices", nw.Graph.Size)
	return nil
}

// Run 构建并求解, 失败时返回失败文档和原因
func (nw *Network) Run(ctx context.Context) (*result.Document, error) {
	if err := nw.Build(ctx); err != nil {
		nw.Logger.Error("拓扑构建失败", "err", err)
		return result.Failure(err), err
	}
	s := lahi.NewSolver(nw.Graph, nw.Model.Fluid, nw.Config.Solver)
	s.Logger = nw.Logger
	s.Debug = nw.Debug
	sol, err := s.Solve(ctx)
	nw.Solution = sol
	return result.Format(nw.Graph, sol, nw.Model.Fluid, err), err
}

// Calculate 读取文档并计算
func Calculate(ctx context.Context, cfg *config.Config, store catalog.Store, r io.Reader) (*result.Document, error) {
	nw := NewNetwork(cfg, store)
	if err := nw.LoadReader(r); err != nil {
		return result.Failure(err), err
	}
	return nw.Run(ctx)
}
