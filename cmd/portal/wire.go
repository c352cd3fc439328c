// cmd/portal/wire.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/database"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/documents"
	"github.com/TimLS94/IJP-Portal-sub000/internal/interview"
	"github.com/TimLS94/IJP-Portal-sub000/internal/mailer"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/notify"
	"github.com/TimLS94/IJP-Portal-sub000/internal/search"
	"github.com/TimLS94/IJP-Portal-sub000/internal/settings"
	"github.com/TimLS94/IJP-Portal-sub000/internal/storage"
	"github.com/TimLS94/IJP-Portal-sub000/internal/store"
	"github.com/TimLS94/IJP-Portal-sub000/internal/workflow"
)

// deps is the composition root shared by the run and admin commands.
type deps struct {
	cfg    *config.Config
	zap    *zap.Logger
	log    logger.Logger
	pg     *database.PostgresClient
	rdb    *database.RedisClient
	store  *store.Store
	reg    *settings.Registry
	index  *search.JobIndex
	events *mailer.Events
	fanout *notify.Fanout

	docs       *documents.Registry
	apps       *workflow.ApplicationService
	jobReqs    *workflow.JobRequestService
	compReqs   *workflow.CompanyRequestService
	companies  *workflow.CompanyService
	postings   *workflow.JobPostingService
	interviews *interview.Service
}

func (d *deps) close() {
	if d.rdb != nil {
		d.rdb.Close()
	}
	if d.pg != nil {
		d.pg.Close()
	}
	if d.zap != nil {
		d.zap.Sync()
	}
}

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// buildDeps loads configuration and wires every service. The caller owns the
// returned deps and must close them.
func buildDeps(ctx context.Context) (*deps, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	d := &deps{cfg: cfg, zap: zapLog, log: log}

	err = retryWithBackoff(func() error {
		var err error
		d.pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return d.pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("PostgreSQL connected")

	err = retryWithBackoff(func() error {
		var err error
		d.rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return d.rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		d.close()
		return nil, err
	}
	zapLog.Info("Redis connected")

	if len(cfg.Database.Elasticsearch.Addresses) > 0 {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			d.close()
			return nil, err
		}
		d.index = search.NewJobIndex(es, cfg.Database.Elasticsearch.JobIndex, log)
		zapLog.Info("Elasticsearch connected")
	} else {
		zapLog.Warn("elasticsearch not configured, job index disabled")
	}

	d.store = store.New(d.pg.DB, log)
	d.reg = settings.NewRegistry(d.pg.DB)

	backend, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		d.close()
		return nil, err
	}

	mail, err := mailer.New(ctx, cfg.Mail, log)
	if err != nil {
		d.close()
		return nil, err
	}
	d.events = mailer.NewEvents(mail, d.store, cfg.App.BaseURL, log)

	sinks := []notify.Sink{d.events}
	if cfg.Notifications.SMS.Enabled {
		sms, err := notify.NewSMSSink(ctx, cfg.Notifications.SMS.Region, cfg.Notifications.SMS.SenderID)
		if err != nil {
			d.close()
			return nil, err
		}
		sinks = append(sinks, sms)
	}
	d.fanout = notify.NewFanout(d.store, d.reg, d.rdb.Client,
		time.Duration(cfg.Notifications.DedupTTLHours)*time.Hour, log, sinks...)

	d.docs = documents.NewRegistry(d.store, backend, d.store, log)
	d.apps = workflow.NewApplicationService(d.store, d.docs, d.events, log)
	d.jobReqs = workflow.NewJobRequestService(d.store, log)
	d.compReqs = workflow.NewCompanyRequestService(d.store, log)
	d.companies = workflow.NewCompanyService(d.store, d.events, log)
	d.postings = workflow.NewJobPostingService(d.store, d.reg, &jobEventsFanout{
		index:  d.index,
		fanout: d.fanout,
		mail:   d.events,
		logger: log,
	}, log)
	d.interviews = interview.NewService(d.store, d.apps, d.events, log)

	return d, nil
}

// jobEventsFanout glues posting activation to the search index, the alert
// fan-out and the company mail.
type jobEventsFanout struct {
	index  *search.JobIndex
	fanout *notify.Fanout
	mail   *mailer.Events
	logger logger.Logger
}

func (j *jobEventsFanout) JobActivated(ctx context.Context, job *models.JobWithCompany) {
	if j.index != nil {
		if err := j.index.Upsert(ctx, job); err != nil {
			j.logger.Error("job index upsert failed", map[string]interface{}{
				"job_id": job.ID,
				"error":  err.Error(),
			})
		}
	}
	j.mail.JobActivated(ctx, job)
	j.fanout.Dispatch(job)
}

func (j *jobEventsFanout) JobArchived(ctx context.Context, jobID int64) {
	if j.index == nil {
		return
	}
	if err := j.index.Delete(ctx, jobID); err != nil {
		j.logger.Error("job index delete failed", map[string]interface{}{
			"job_id": jobID,
			"error":  err.Error(),
		})
	}
}
