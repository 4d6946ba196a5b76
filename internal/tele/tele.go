package tele

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/astridmart/kiosk/helpers"
	"github.com/astridmart/kiosk/internal/cart"
	"github.com/astridmart/kiosk/log2"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
)

type tele struct { //nolint:maligned
	config Config
	log    *log2.Log
	m      mqtt.Client

	topicPrefix      string
	topicConnect     string
	topicState       string
	topicScan        string
	topicTransaction string
	topicError       string
}

func New() Teler { return &tele{} }

func (self *tele) Init(ctx context.Context, log *log2.Log, teleConfig Config) error {
	self.config = teleConfig
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	if !self.config.Enable {
		return nil
	}
	if self.config.MqttBroker == "" {
		return errors.NotValidf("tele enable=true mqtt_broker=''")
	}
	mqtt.ERROR = log
	mqtt.CRITICAL = log
	mqtt.WARN = log

	clientId := fmt.Sprintf("kiosk%d", self.config.KioskId)
	credFun := func() (string, string) {
		return clientId, self.config.MqttPassword
	}
	self.topicPrefix = clientId
	self.topicConnect = fmt.Sprintf("%s/c", self.topicPrefix)
	self.topicState = fmt.Sprintf("%s/w/1s", self.topicPrefix)
	self.topicScan = fmt.Sprintf("%s/w/1b", self.topicPrefix)
	self.topicTransaction = fmt.Sprintf("%s/w/1t", self.topicPrefix)
	self.topicError = fmt.Sprintf("%s/w/1e", self.topicPrefix)
	keepAlive := helpers.IntSecondDefault(self.config.KeepaliveSec, 60*time.Second)
	pingTimeout := helpers.IntSecondDefault(self.config.PingTimeoutSec, 30*time.Second)
	retryInterval := helpers.IntSecondDefault(self.config.KeepaliveSec/2, 30*time.Second)

	mopt := mqtt.NewClientOptions().
		AddBroker(self.config.MqttBroker).
		SetBinaryWill(self.topicConnect, []byte{0x00}, 1, true).
		SetCleanSession(false).
		SetClientID(clientId).
		SetCredentialsProvider(credFun).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout).
		SetOrderMatters(false).
		SetResumeSubs(true).
		SetConnectRetryInterval(retryInterval).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler).
		SetConnectRetry(true)
	if self.config.StorePath != "" {
		mopt.SetStore(mqtt.NewFileStore(self.config.StorePath))
	}
	self.m = mqtt.NewClient(mopt)
	if token := self.m.Connect(); token.Error() != nil {
		return errors.Annotate(token.Error(), "tele connect")
	}
	self.State(State_Boot)
	return nil
}

func (self *tele) Close() {
	if self.m == nil {
		return
	}
	self.m.Disconnect(250)
}

func (self *tele) State(s State) {
	self.publish(self.topicState, stateMessage{KioskId: self.config.KioskId, State: s.String(), At: now()})
}

func (self *tele) Scan(code string, known bool) {
	self.publish(self.topicScan, scanMessage{KioskId: self.config.KioskId, Code: code, Known: known, At: now()})
}

func (self *tele) Transaction(r cart.Receipt) {
	self.publish(self.topicTransaction, transactionMessage{KioskId: self.config.KioskId, Receipt: r})
}

func (self *tele) Error(e error) {
	if e == nil {
		return
	}
	self.log.Debugf("tele.Error: " + errors.ErrorStack(e))
	self.publish(self.topicError, errorMessage{KioskId: self.config.KioskId, Error: e.Error(), At: now()})
}

func (self *tele) publish(topic string, v interface{}) {
	if !self.config.Enable || self.m == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		self.log.Errorf("tele marshal topic=%s v=%#v err=%v", topic, v, err)
		return
	}
	// QOS 1, paho file store keeps it across reconnects
	self.m.Publish(topic, 1, false, payload)
}

func (self *tele) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt disconnect err=%v", err)
}

func (self *tele) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connect")
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}
