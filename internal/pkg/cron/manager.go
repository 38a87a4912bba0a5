package cron

import (
	"Zuno/internal/api/config"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// Entry 一个定时任务及其调度表达式
type Entry struct {
	Name string
	Spec string
	Job  cron.Job
}

type Manager struct {
	engine  *cron.Cron
	entries []Entry
}

func NewCronManager(entries ...Entry) *Manager {
	return &Manager{
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		entries: entries,
	}
}

// Entries 按配置组装任务，空表达式的任务不注册
func Entries(cfg config.CronConfig, reconcile, storyExpiry, mediaCleanup cron.Job) []Entry {
	return []Entry{
		{Name: "content_reconcile", Spec: cfg.ContentReconcile, Job: reconcile},
		{Name: "story_expiry", Spec: cfg.StoryExpiry, Job: storyExpiry},
		{Name: "media_cleanup", Spec: cfg.MediaCleanup, Job: mediaCleanup},
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	for _, e := range s.entries {
		if e.Spec == "" || e.Job == nil {
			log.Warn("cron job disabled", "job", e.Name)
			continue
		}
		if _, err := s.engine.AddJob(e.Spec, e.Job); err != nil {
			return err
		}
		log.Info("cron job registered", "job", e.Name, "spec", e.Spec)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// InitCron 注册并启动，注册失败时引擎不启动
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()
	return nil
}
