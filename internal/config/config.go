package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"gnss-monitor/internal/fix"
)

type Config struct {
	Receiver ReceiverConfig `yaml:"receiver"`
	Poll     PollConfig     `yaml:"poll"`
	Bounds   fix.Bounds     `yaml:"bounds"`
	// BoundsFile is a key = value file that overrides Bounds and is
	// watched for changes.
	BoundsFile string       `yaml:"bounds_file"`
	Output     OutputConfig `yaml:"output"`
	Log        LogConfig    `yaml:"log"`
}

type ReceiverConfig struct {
	Kind      string        `yaml:"kind" validate:"oneof=i2c periph serial replay"`
	Device    string        `yaml:"device"`
	Address   uint16        `yaml:"address" validate:"gte=8,lte=119"`
	PeriphBus string        `yaml:"periph_bus"`
	Serial    SerialConfig  `yaml:"serial"`
	Replay    ReplayConfig  `yaml:"replay"`
	TxReady   TxReadyConfig `yaml:"tx_ready"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud uint   `yaml:"baud" validate:"gt=0"`
}

type ReplayConfig struct {
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed" validate:"gt=0"`
	Loop  bool    `yaml:"loop"`
}

type TxReadyConfig struct {
	Enable    bool `yaml:"enable"`
	Pin       int  `yaml:"pin" validate:"gte=0"`
	ActiveLow bool `yaml:"active_low"`
}

type PollConfig struct {
	Interval   time.Duration `yaml:"interval" validate:"gt=0"`
	BusyMin    time.Duration `yaml:"busy_min" validate:"gt=0"`
	BusyMax    time.Duration `yaml:"busy_max" validate:"gtefield=BusyMin"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxBuffer  int           `yaml:"max_buffer_bytes" validate:"gte=1024"`
	MaxPartial int           `yaml:"max_partial_bytes" validate:"gte=82"`
	MaxChunk   int           `yaml:"max_chunk_bytes" validate:"gt=0,lte=65535"`
}

type OutputConfig struct {
	PrintNMEA       bool         `yaml:"print_nmea"`
	PrintSatellites bool         `yaml:"print_satellites"`
	MQTT            MQTTConfig   `yaml:"mqtt"`
	UDP             UDPConfig    `yaml:"udp"`
	Web             WebConfig    `yaml:"web"`
	Record          RecordConfig `yaml:"record"`
}

type MQTTConfig struct {
	Enable   bool          `yaml:"enable"`
	Broker   string        `yaml:"broker"`
	ClientID string        `yaml:"client_id"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Topic    string        `yaml:"topic"`
	QoS      byte          `yaml:"qos" validate:"lte=2"`
	Retained bool          `yaml:"retained"`
	Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type WebConfig struct {
	Enable   bool   `yaml:"enable"`
	Listen   string `yaml:"listen"`
	LogLines int    `yaml:"log_lines" validate:"gt=0"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// yaml.v3 leaves fields the document does not name untouched, so a
	// partial bounds section keeps the remaining default limits.
	cfg := Config{Bounds: fix.DefaultBounds()}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	r := &cfg.Receiver
	if r.Kind == "" {
		r.Kind = "i2c"
	}
	if r.Device == "" {
		r.Device = "/dev/i2c-1"
	}
	if r.Address == 0 {
		r.Address = 0x42
	}
	if r.Serial.Baud == 0 {
		r.Serial.Baud = 9600
	}
	if r.Replay.Speed == 0 {
		r.Replay.Speed = 1
	}

	p := &cfg.Poll
	if p.Interval == 0 {
		p.Interval = 100 * time.Millisecond
	}
	if p.BusyMin == 0 {
		p.BusyMin = 500 * time.Millisecond
	}
	if p.BusyMax == 0 {
		p.BusyMax = 1000 * time.Millisecond
	}
	if p.Timeout == 0 {
		p.Timeout = 2 * time.Second
	}
	if p.MaxBuffer == 0 {
		p.MaxBuffer = 64 * 1024
	}
	if p.MaxPartial == 0 {
		p.MaxPartial = 1024
	}
	if p.MaxChunk == 0 {
		p.MaxChunk = 4096
	}

	if cfg.Bounds == (fix.Bounds{}) {
		cfg.Bounds = fix.DefaultBounds()
	}

	o := &cfg.Output
	if o.MQTT.ClientID == "" {
		o.MQTT.ClientID = "gnss-monitor"
	}
	if o.MQTT.Topic == "" {
		o.MQTT.Topic = "gnss/fix"
	}
	if o.MQTT.Timeout == 0 {
		o.MQTT.Timeout = 2 * time.Second
	}
	if o.Web.Listen == "" {
		o.Web.Listen = ":8080"
	}
	if o.Web.LogLines == 0 {
		o.Web.LogLines = 2000
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field ranges and the rules that span sections.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return err
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return fmt.Errorf("bounds: %w", err)
	}

	r := cfg.Receiver
	switch r.Kind {
	case "serial":
		if r.Serial.Port == "" {
			return fmt.Errorf("receiver.serial.port is required when receiver.kind is 'serial'")
		}
	case "replay":
		if r.Replay.Path == "" {
			return fmt.Errorf("receiver.replay.path is required when receiver.kind is 'replay'")
		}
		if r.TxReady.Enable {
			return fmt.Errorf("receiver.tx_ready cannot be used with receiver.kind 'replay'")
		}
	}

	o := cfg.Output
	if o.MQTT.Enable && o.MQTT.Broker == "" {
		return fmt.Errorf("output.mqtt.broker is required when output.mqtt.enable is true")
	}
	if o.UDP.Enable && o.UDP.Dest == "" {
		return fmt.Errorf("output.udp.dest is required when output.udp.enable is true")
	}
	if o.Record.Enable {
		if o.Record.Path == "" {
			return fmt.Errorf("output.record.path is required when output.record.enable is true")
		}
		if r.Kind == "replay" {
			return fmt.Errorf("output.record cannot be used with receiver.kind 'replay'")
		}
	}
	return nil
}

func describe(fe validator.FieldError) error {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %v", ns, fe.Param(), fe.Value())
	case "gt":
		return fmt.Errorf("%s must be > %s", ns, fe.Param())
	case "gte":
		return fmt.Errorf("%s must be >= %s", ns, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be <= %s", ns, fe.Param())
	case "gtefield":
		return fmt.Errorf("%s must be >= %s", ns, fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", ns, fe.Tag())
	}
}
