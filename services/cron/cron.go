package cron

import (
	"context"

	"github.com/robfig/cron/v3"
	"gitlab.com/CoiaPrant/clog"
)

var logger = cron.PrintfLogger(clog.Native("[CronJob]", clog.LevelDebug))

// Job is a named unit of periodic work.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	clog.Info("[CronJob] Start all cron jobs")
}

// Stop halts scheduling and waits for running jobs to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	clog.Info("[CronJob] Stop all cron jobs")
}

func (s *Scheduler) AddCron(spec, name string, job Job) (id cron.EntryID, err error) {
	id, err = s.cron.AddFunc(spec, func() { Run(name, job) })
	if err != nil {
		clog.Errorf("[CronJob] failed to add job, spec: %s, error: %s", spec, err)
		return
	}

	clog.Debugf("[CronJob] Added job %s, spec: %s, id: %d", name, spec, id)
	return
}

func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Run executes job once and logs its outcome.
func Run(name string, job Job) error {
	err := job(context.Background())
	if err != nil {
		clog.Errorf("[CronJob][%s] failed to execute, error: %s", name, err)
		return err
	}

	clog.Success("[CronJob][" + name + "] Execute completed")
	return nil
}
