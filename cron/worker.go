package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"slotify/config"
	timeslotRepo "slotify/database/repository/timeslot"
	"slotify/services/scheduling"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

const TypeExtendFixedSlots = "slots:extend"

// ExtendPayload identifies one owner whose fixed templates need extending.
type ExtendPayload struct {
	OwnerID string `json:"ownerId"`
}

// extendWindowDays is the observation window the maintenance pass scans for
// fixed templates before probing whether a future instance already exists.
const extendWindowDays = 7

// InitExtendWorker runs the fixed-slot extension pipeline in background:
// a cron schedule enqueues one task per owner with fixed templates in the
// current window, and the async worker expands each owner's templates to the
// rolling horizon.
func InitExtendWorker(engine scheduling.SchedulingEngine, repo timeslotRepo.TimeSlotRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExtendFixedSlots, handleExtendTask(engine))

	// Start async worker with retry logic
	go func() {
		log.Println("[ExtendWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExtendWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExtendWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	startExtendSchedule(repo, redisOpts)
}

// startExtendSchedule drives the periodic enqueue with a cron expression
// from config (default nightly).
func startExtendSchedule(repo timeslotRepo.TimeSlotRepository, redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)

	c := cron.New()
	_, err := c.AddFunc(config.AppConfig.ExtendCronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		now := time.Now().UTC()
		owners, err := repo.OwnersWithFixedSlots(ctx, now, now.AddDate(0, 0, extendWindowDays))
		if err != nil {
			log.Printf("[ExtendWorker] failed to list owners with fixed slots: %v", err)
			return
		}

		for _, ownerID := range owners {
			payload, err := json.Marshal(ExtendPayload{OwnerID: ownerID})
			if err != nil {
				continue
			}
			if _, err := client.Enqueue(asynq.NewTask(TypeExtendFixedSlots, payload)); err != nil {
				log.Printf("[ExtendWorker] failed to enqueue extension for owner %s: %v", ownerID, err)
			}
		}
		log.Printf("[ExtendWorker] enqueued fixed-slot extension for %d owners", len(owners))
	})
	if err != nil {
		log.Fatalf("[ExtendWorker] invalid cron spec %q: %v", config.AppConfig.ExtendCronSpec, err)
	}
	c.Start()
}

func handleExtendTask(engine scheduling.SchedulingEngine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExtendPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExtendHandler] invalid payload: %v", err)
			return err
		}

		now := time.Now().UTC()
		extended, err := engine.ExtendFixedSlots(ctx, p.OwnerID, now, now.AddDate(0, 0, extendWindowDays))
		if err != nil {
			log.Printf("[ExtendHandler] extension failed for owner %s: %v", p.OwnerID, err)
			return err
		}
		if extended > 0 {
			log.Printf("[ExtendHandler] extended %d templates for owner %s", extended, p.OwnerID)
		}
		return nil
	}
}
