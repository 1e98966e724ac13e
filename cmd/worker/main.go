// Worker consumes incident events from Kafka, routes them against the
// notification rules and critical-recipient list, and produces delivery
// intents for the external sender. It also runs the periodic certificate
// expiry sweep and serves Prometheus metrics.
// Set DATABASE_URL, KAFKA_BROKERS, EVENTS_TOPIC, INTENTS_TOPIC, KAFKA_GROUP_ID.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	certrepo "fieldsafe/backend/internal/certificate/repository"
	certservice "fieldsafe/backend/internal/certificate/service"
	"fieldsafe/backend/internal/config"
	"fieldsafe/backend/internal/db"
	membershiprepo "fieldsafe/backend/internal/membership/repository"
	"fieldsafe/backend/internal/notification/domain"
	"fieldsafe/backend/internal/notification/producer"
	notifrepo "fieldsafe/backend/internal/notification/repository"
	"fieldsafe/backend/internal/notification/router"
	"fieldsafe/backend/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("worker: DATABASE_URL is required")
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	rules := notifrepo.NewPostgresRepository(conn)
	members := membershiprepo.NewPostgresRepository(conn)
	certs := certservice.NewService(certrepo.NewPostgresRepository(conn))
	route := router.New(members)

	intents, err := producer.NewKafkaProducer(brokers, cfg.IntentsTopic)
	if err != nil {
		log.Fatalf("worker: intents producer: %v", err)
	}
	defer intents.Close()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.EventsTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("worker: shutting down...")
		cancel()
	}()

	obs.Init()
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: obs.Handler()}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("worker: metrics server: %v", err)
		}
	}()
	defer metricsSrv.Close()

	go runSweep(ctx, certs, cfg.SweepEvery())

	log.Printf("worker: consuming from %s (group %s), producing to %s",
		cfg.EventsTopic, cfg.KafkaGroupID, cfg.IntentsTopic)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("worker: stopped")
				return
			}
			log.Printf("worker: kafka read error: %v", err)
			continue
		}

		routeCtx, routeCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := handleEvent(routeCtx, msg.Value, rules, route, intents); err != nil {
			obs.EventFailed()
			log.Printf("worker: route event failed: %v", err)
		}
		routeCancel()
	}
}

// handleEvent decodes one event, routes it, and emits the resulting intents.
// A malformed event or a rule with malformed storage fails the whole message;
// zero intents is a valid silent outcome.
func handleEvent(ctx context.Context, payload []byte, repo notifrepo.Repository, route *router.Router, out producer.Producer) error {
	var event domain.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	obs.EventConsumed(event.Type, event.Severity)

	enabled, err := repo.ListEnabledRules(ctx)
	if err != nil {
		return err
	}
	critical, err := repo.ListCriticalRecipients(ctx)
	if err != nil {
		return err
	}

	resolved, err := route.Route(ctx, event, enabled, critical)
	if err != nil {
		return err
	}
	for _, intent := range resolved {
		if err := out.Emit(ctx, intent); err != nil {
			return err
		}
		obs.IntentProduced(string(intent.Channel))
	}
	return nil
}

// runSweep expires due certificate grants on a fixed interval. Grant listings
// reconcile on read regardless; the sweep bounds staleness for paths that
// never list.
func runSweep(ctx context.Context, certs *certservice.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := certs.Reconcile(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("worker: expiry sweep: %v", err)
				continue
			}
			obs.GrantsExpired(n)
			if n > 0 {
				log.Printf("worker: expiry sweep transitioned %d grants", n)
			}
		}
	}
}
