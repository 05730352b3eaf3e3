package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  APIServerConfigs
	Auth       AuthConfigs
	Redis      RedisConfigs
	Kafka      KafkaConfigs
	Draw       DrawConfigs
	Engine     EngineConfigs
	Log        LogConfigs
	Prometheus PrometheusConfigs
	Seed       SeedConfigs
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string

	// File is only used by the sqlite driver.
	File string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	AllowedOrigins []string

	// InternalKey guards the notification endpoints called by the content
	// services.
	InternalKey string
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr         string
	GroupID      string
	TriggerTopic string
	MissionTopic string
}

type DrawConfigs struct {
	Cost        int64
	MaxAttempts int

	// LockBackend is either "memory" or "redis".
	LockBackend string
	LockTimeout time.Duration
	LockTTL     time.Duration

	// NodeID distinguishes the draw attempt ids generated by each api
	// instance. It must be unique per instance, from 0 to 1023.
	NodeID int64
}

type EngineConfigs struct {
	VisitPoints int64
}

type LogConfigs struct {
	Level string
}

type PrometheusConfigs struct {
	Port string
}

type SeedConfigs struct {
	Prizes       []SeedPrize
	Participants []SeedParticipant
}

type SeedPrize struct {
	ID        string `toml:"id"`
	Name      string `toml:"name"`
	ImageURL  string `toml:"image_url"`
	Stock     int    `toml:"stock"`
	UnitPrice int    `toml:"unit_price"`
}

type SeedParticipant struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Role string `toml:"role"`
}

// Default returns the configuration used when the config file doesn't set a
// value.
func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver: "mysql",
			Host:   "localhost",
			Port:   "3306",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs:  ServerConfigs{Port: "8080"},
			AllowedOrigins: []string{"*"},
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 12 * time.Hour,
			},
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addr:         "localhost:9092",
			GroupID:      "reward-engine",
			TriggerTopic: "mission_trigger",
			MissionTopic: "mission_completed",
		},
		Draw: DrawConfigs{
			Cost:        40,
			MaxAttempts: 2,
			LockBackend: "memory",
			LockTimeout: 3 * time.Second,
			LockTTL:     10 * time.Second,
		},
		Engine:     EngineConfigs{VisitPoints: 10},
		Log:        LogConfigs{Level: "info"},
		Prometheus: PrometheusConfigs{Port: "9090"},
	}
}

// DefaultSeed is used by the seed command when the config file has no seed
// section.
func DefaultSeed() SeedConfigs {
	return SeedConfigs{
		Prizes: []SeedPrize{
			{ID: "GOODS-01", Name: "Tumbler", Stock: 150, UnitPrice: 5000},
			{ID: "GOODS-02", Name: "Eco bag", Stock: 150, UnitPrice: 5000},
			{ID: "GOODS-03", Name: "Notebook", Stock: 150, UnitPrice: 5000},
			{ID: "GOODS-04", Name: "Sticker pack", Stock: 150, UnitPrice: 5000},
		},
		Participants: []SeedParticipant{
			{ID: "ADMIN", Name: "Administrator", Role: "ADMIN"},
			{ID: "E001", Name: "Employee 001"},
			{ID: "E002", Name: "Employee 002"},
			{ID: "E003", Name: "Employee 003"},
			{ID: "E004", Name: "Employee 004"},
			{ID: "E005", Name: "Employee 005"},
			{ID: "E006", Name: "Employee 006"},
			{ID: "E007", Name: "Employee 007"},
			{ID: "E008", Name: "Employee 008"},
		},
	}
}
