package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/railcore/cif-engine/src/cif"
	"github.com/railcore/cif-engine/src/common/config"
	"github.com/railcore/cif-engine/src/common/data"
	"github.com/railcore/cif-engine/src/common/utils"
	"github.com/railcore/cif-engine/src/timetable"
	"github.com/railcore/cif-engine/src/update-consumer/listener"
)

// updateConsumer holds the state the STOMP handler mutates: the in-memory
// timetable being kept current and the snapshot writer.
type updateConsumer struct {
	mu          sync.Mutex
	db          *timetable.Database
	dc          *data.DataClient
	reportQueue string
	failFast    bool
}

// HandleUpdate applies one incremental CIF update message and publishes the
// apply report to the report queue.
func (uc *updateConsumer) HandleUpdate(channel *amqp.Channel, body string) {
	logger := utils.GetLogger()

	file, parseErrs, err := cif.Parse(strings.NewReader(body), cif.ParseOptions{FailFast: uc.failFast})
	if err != nil {
		logger.Warnw("error parsing update message", "error", err)
		return
	}
	if len(parseErrs) > 0 {
		logger.Warnw("update message had unparseable lines", "count", len(parseErrs), "first", parseErrs[0])
	}

	uc.mu.Lock()
	rep, err := uc.db.ApplyFile(file, timetable.Options{FailFast: uc.failFast})
	uc.mu.Unlock()
	if err != nil {
		logger.Warnw("error applying update", "error", err)
		return
	}

	logger.Infow("update applied",
		"schedules", rep.Schedules,
		"tiplocs", rep.Tiplocs,
		"associations", rep.Associations,
		"errors", rep.ErrorCount(),
	)

	payload, _ := json.Marshal(rep)
	err = channel.Publish(
		"",
		uc.reportQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err != nil {
		logger.Warnw("error publishing report to RabbitMQ", "queue", uc.reportQueue, "error", err)
	} else {
		logger.Debug("Published apply report to RabbitMQ")
	}

	uc.mu.Lock()
	snapErr := uc.dc.SaveSnapshot(context.Background(), uc.db)
	uc.mu.Unlock()
	if snapErr != nil {
		logger.Warnw("error saving snapshot after update", "error", snapErr)
	}
}

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := utils.NewPostgresConnection()
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer pg.Close()

	rdb := utils.NewRedisClient()
	defer rdb.Close()

	mqConn, mqChannel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer mqConn.Close()
	defer mqChannel.Close()

	closeChan := make(chan *amqp.Error)
	mqConn.NotifyClose(closeChan)

	go func() {
		select {
		case err := <-closeChan:
			if err != nil {
				logger.Warnw("RabbitMQ connection closed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}()

	stompConn, err := utils.NewNRStompConnection()
	if err != nil {
		logger.Fatalw("failed to connect to NR stomp", "error", err)
	}

	uc := &updateConsumer{
		db:          timetable.NewWithLogger(logger),
		dc:          data.NewDataClient(pg, rdb, logger),
		reportQueue: cfg.Update.ReportQueue,
		failFast:    cfg.Database.FailFast,
	}

	if seed := os.Getenv("TIMETABLE_FILE"); seed != "" {
		if err := uc.seedFromFile(seed); err != nil {
			logger.Fatalw("failed to seed timetable", "file", seed, "error", err)
		}
		logger.Infow("timetable seeded", "file", seed, "trains", len(uc.db.TrainUIDs()))
	}

	var wg sync.WaitGroup

	updateListener := listener.NewListener(ctx, &wg, mqChannel, stompConn, cfg.Update.Topic, uc.HandleUpdate)
	if err := updateListener.DeclareQueue(cfg.Update.ReportQueue); err != nil {
		logger.Fatalw("failed to declare report queue", "queue", cfg.Update.ReportQueue, "error", err)
	}

	wg.Add(1)
	go updateListener.Start()

	<-ctx.Done()
	stop()

	wg.Wait()

	stompConn.Disconnect()
}

func (uc *updateConsumer) seedFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	file, _, err := cif.Parse(f, cif.ParseOptions{})
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, err = uc.db.ApplyFile(file, timetable.Options{FailFast: uc.failFast})
	return err
}
