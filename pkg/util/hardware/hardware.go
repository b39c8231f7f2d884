package hardware

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"go.uber.org/zap"

	"github.com/lk2023060901/coders-go/pkg/log"
)

// GetCPUNum 返回可用的逻辑 CPU 核心数。
//
// 优先使用 gopsutil 读取主机信息，失败时退回 runtime.NumCPU，
// 并且不会超过当前 GOMAXPROCS。
func GetCPUNum() int {
	procs := runtime.GOMAXPROCS(0)
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		if err != nil {
			log.Debug("failed to get cpu counts, fallback to runtime", zap.Error(err))
		}
		n = runtime.NumCPU()
	}
	if procs > 0 && n > procs {
		n = procs
	}
	if n <= 0 {
		n = 1
	}
	return n
}
