// Package mqtt bridges the bot to an MQTT broker. It publishes moderation
// events and answers request/response calls from other services.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/logger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Namespace prefixes every topic the bridge uses
const Namespace = "modbot"

// ErrNotConnected is returned when publishing without a broker connection
var ErrNotConnected = errors.New("mqtt client not connected")

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// RequestHandler answers one request. The payload carries the request's
// fields plus "_topic", the request name it arrived on.
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// RequestTopic is the topic requests named name arrive on
func RequestTopic(name string) string {
	return Namespace + "/request/" + name
}

// ResponseTopic is the topic the answer to one request is published on
func ResponseTopic(name, correlationID string) string {
	return Namespace + "/response/" + name + "/" + correlationID
}

// EventTopic is the topic moderation events of one action are published on
func EventTopic(action string) string {
	return Namespace + "/events/" + action
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client           mqtt.Client
	clientID         string
	mu               sync.RWMutex
	routes           map[string]RequestHandler
	responseHandlers map[string]func(MqttResponse)
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init connects the global communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global communicator, nil when MQTT is disabled
func Get() *MqttCommunicator {
	return communicator
}

func newCommunicator(clientID string) *MqttCommunicator {
	return &MqttCommunicator{
		clientID:         clientID,
		routes:           make(map[string]RequestHandler),
		responseHandlers: make(map[string]func(MqttResponse)),
	}
}

// NewMqttCommunicator creates a communicator and starts connecting. The
// client keeps retrying in the background if the broker is unreachable.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := newCommunicator(clientID)

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		// Handlers publish responses and wait on the token
		SetOrderMatters(false).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			mc.resubscribe()
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		logger.Warn("El broker MQTT no responde, se seguirá reintentando en segundo plano", "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Publish marshals payload and sends it to topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	if mc == nil || mc.client == nil {
		return ErrNotConnected
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 1, false, jsonData)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// Request sends a request and waits for its response
func (mc *MqttCommunicator) Request(name string, payload interface{}, timeout time.Duration) (interface{}, error) {
	if mc == nil || mc.client == nil {
		return nil, ErrNotConnected
	}
	correlationID := uuid.New().String()
	responseTopic := ResponseTopic(name, correlationID)

	responseChan := make(chan MqttResponse, 1)

	mc.mu.Lock()
	mc.responseHandlers[correlationID] = func(response MqttResponse) {
		select {
		case responseChan <- response:
		default:
		}
	}
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		delete(mc.responseHandlers, correlationID)
		mc.mu.Unlock()
		mc.client.Unsubscribe(responseTopic)
	}()

	token := mc.client.Subscribe(responseTopic, 1, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			logger.Error(fmt.Sprintf("Respuesta MQTT inválida: %v", err), "MQTT")
			return
		}

		mc.mu.RLock()
		handler, exists := mc.responseHandlers[response.CorrelationID]
		mc.mu.RUnlock()

		if exists {
			handler(response)
		}
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	request := MqttRequest{CorrelationID: correlationID, Payload: payload}
	if err := mc.Publish(RequestTopic(name), request); err != nil {
		return nil, err
	}

	select {
	case response := <-responseChan:
		if response.Error != "" {
			return nil, errors.New(response.Error)
		}
		return response.Data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", name)
	}
}

// On registers callback for requests on name. name may hold MQTT wildcards.
func (mc *MqttCommunicator) On(name string, callback RequestHandler) {
	pattern := RequestTopic(name)

	mc.mu.Lock()
	mc.routes[pattern] = callback
	mc.mu.Unlock()

	if mc.IsConnected() {
		mc.subscribeRoute(pattern)
	}
}

func (mc *MqttCommunicator) subscribeRoute(pattern string) {
	token := mc.client.Subscribe(pattern, 1, func(c mqtt.Client, msg mqtt.Message) {
		responseTopic, response, ok := mc.handleRequest(msg.Topic(), msg.Payload())
		if !ok {
			return
		}
		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Error(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
		}
	})
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", pattern, token.Error()), "MQTT")
	}
}

// resubscribe restores request routes after a (re)connect
func (mc *MqttCommunicator) resubscribe() {
	mc.mu.RLock()
	patterns := make([]string, 0, len(mc.routes))
	for p := range mc.routes {
		patterns = append(patterns, p)
	}
	mc.mu.RUnlock()

	for _, p := range patterns {
		mc.subscribeRoute(p)
	}
}

// handleRequest routes one raw request to its handler and builds the answer
func (mc *MqttCommunicator) handleRequest(topic string, raw []byte) (string, MqttResponse, bool) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return "", MqttResponse{}, false
	}
	if request.CorrelationID == "" {
		logger.Warn(fmt.Sprintf("Petición sin correlationId en %s", topic), "MQTT")
		return "", MqttResponse{}, false
	}

	var callback RequestHandler
	mc.mu.RLock()
	for pattern, cb := range mc.routes {
		if topicMatch(pattern, topic) {
			callback = cb
			break
		}
	}
	mc.mu.RUnlock()
	if callback == nil {
		return "", MqttResponse{}, false
	}

	name := strings.TrimPrefix(topic, Namespace+"/request/")
	responseTopic := ResponseTopic(name, request.CorrelationID)

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = name

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payloadMap)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}
	return responseTopic, response, true
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part == "+" {
			continue
		}
		if part != topicParts[i] {
			return false
		}
	}
	return len(patternParts) == len(topicParts)
}
