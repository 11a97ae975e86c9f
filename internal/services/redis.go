package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// SetVehicleLocation stores a vehicle's live position in Redis
func SetVehicleLocation(ctx context.Context, vehicleID uint, lat, lng float64) error {
	locationData := map[string]interface{}{
		"lat":     lat,
		"lng":     lng,
		"updated": time.Now().Unix(),
	}

	data, err := json.Marshal(locationData)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("vehicle:location:%d", vehicleID)
	return RedisClient.Set(ctx, key, data, time.Hour).Err()
}

// GetVehicleLocation retrieves a vehicle's live position from Redis
func GetVehicleLocation(ctx context.Context, vehicleID uint) (lat, lng float64, err error) {
	key := fmt.Sprintf("vehicle:location:%d", vehicleID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	var locationData map[string]interface{}
	if err := json.Unmarshal([]byte(data), &locationData); err != nil {
		return 0, 0, err
	}

	lat, _ = locationData["lat"].(float64)
	lng, _ = locationData["lng"].(float64)

	return lat, lng, nil
}

// PublishBookingUpdate publishes a booking status change to Redis pub/sub so
// other processes (intake scanners, dashboards) can follow the lifecycle.
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"booking_id": bookingID,
		"status":     status,
		"data":       data,
		"timestamp":  time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", jsonData).Err()
}
