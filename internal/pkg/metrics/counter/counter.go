package counter

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const notificationOutcomesKey = "billing:counters:notifications"

// Counter keeps per-outcome totals of processed provider notifications in a
// Redis hash.
type Counter struct {
	client *redis.Client
}

func New(client *redis.Client) *Counter {
	return &Counter{client: client}
}

// AddNotificationOutcome increments the counter for outcome.
func (c *Counter) AddNotificationOutcome(ctx context.Context, outcome string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.HIncrBy(ctx, notificationOutcomesKey, outcome, 1).Err()
}

// NotificationOutcomes returns all outcome totals. Unparsable fields are skipped.
func (c *Counter) NotificationOutcomes(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{}
	if c == nil || c.client == nil {
		return out, nil
	}
	data, err := c.client.HGetAll(ctx, notificationOutcomesKey).Result()
	if err != nil {
		return nil, err
	}
	for k, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}
