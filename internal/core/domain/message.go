package domain

import "github.com/google/uuid"

// Agent names used as message senders and receivers.
const (
	AgentCoordinator = "CoordinatorAgent"
	AgentIngestion   = "IngestionAgent"
	AgentRetrieval   = "RetrievalAgent"
	AgentLLMResponse = "LLMResponseAgent"
)

// MessageType identifies the purpose of an agent message.
type MessageType string

// Message types exchanged between agents.
const (
	MessageIngestRequest    MessageType = "INGEST_REQUEST"
	MessageIngestResponse   MessageType = "INGEST_RESPONSE"
	MessageCondenseRequest  MessageType = "CONDENSE_REQUEST"
	MessageRetrievalRequest MessageType = "RETRIEVAL_REQUEST"
	MessageContextResponse  MessageType = "CONTEXT_RESPONSE"
	MessageGenerateRequest  MessageType = "GENERATION_REQUEST"
	MessageFinalResponse    MessageType = "FINAL_RESPONSE"
)

// AgentPayload carries the data exchanged between agents. Fields are
// populated according to the message type.
type AgentPayload struct {
	// SessionID scopes the work to one conversation.
	SessionID string

	// Query is the question being worked on.
	Query string

	// History is the conversation so far.
	History []ChatTurn

	// Context is the retrieved chunks, for retrieval responses and
	// generation requests.
	Context []RetrievedChunk

	// Answer is the generated text, for final responses.
	Answer string

	// Citations are the sources backing the answer.
	Citations []Citation

	// Documents are the raw uploads, for ingest requests.
	Documents []RawDocument
}

// AgentMessage is the envelope for communication between agents. The
// coordinator stamps a TraceID on the first message of an exchange and every
// subsequent hop carries it forward.
type AgentMessage struct {
	// Sender is the agent that produced the message.
	Sender string

	// Receiver is the agent the message is addressed to.
	Receiver string

	// Type identifies the request or response kind.
	Type MessageType

	// TraceID correlates all messages of one exchange.
	TraceID string

	// Payload is the message body.
	Payload AgentPayload
}

// NewAgentMessage builds a message with a fresh trace ID.
func NewAgentMessage(sender, receiver string, t MessageType, payload AgentPayload) AgentMessage {
	return AgentMessage{
		Sender:   sender,
		Receiver: receiver,
		Type:     t,
		TraceID:  uuid.New().String(),
		Payload:  payload,
	}
}

// Reply builds a response message addressed back to the sender,
// carrying the same trace ID.
func (m AgentMessage) Reply(t MessageType, payload AgentPayload) AgentMessage {
	return AgentMessage{
		Sender:   m.Receiver,
		Receiver: m.Sender,
		Type:     t,
		TraceID:  m.TraceID,
		Payload:  payload,
	}
}
