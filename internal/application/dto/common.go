package dto

// Envelope is the response body shape for every endpoint:
// {success, message, data}.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a success envelope.
func OK(data interface{}, message string) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail builds an error envelope.
func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}
