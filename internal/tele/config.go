package tele

type Config struct { //nolint:maligned
	Enable         bool   `hcl:"enable"`
	KioskId        int    `hcl:"kiosk_id"`
	LogDebug       bool   `hcl:"log_debug"`
	MqttBroker     string `hcl:"mqtt_broker"`
	MqttPassword   string `hcl:"mqtt_password"`
	StorePath      string `hcl:"store_path"`
	KeepaliveSec   int    `hcl:"keepalive_sec"`
	PingTimeoutSec int    `hcl:"ping_timeout_sec"`
}
