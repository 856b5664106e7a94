package phind

import "relayBot/internal/ai_model"

// request mirrors the agent endpoint's payload. The extension flags are
// constants the endpoint expects and carry no meaning for us.
type request struct {
	AdditionalExtensionContext string             `json:"additional_extension_context"`
	AllowMagicButtons          bool               `json:"allow_magic_buttons"`
	IsVscodeExtension          bool               `json:"is_vscode_extension"`
	MessageHistory             []ai_model.Message `json:"message_history"`
	RequestedModel             string             `json:"requested_model"`
	UserInput                  string             `json:"user_input"`
}

func newRequest(messages []ai_model.Message, model string) request {
	return request{
		AdditionalExtensionContext: "",
		AllowMagicButtons:          true,
		IsVscodeExtension:          true,
		MessageHistory:             messages,
		RequestedModel:             model,
		UserInput:                  messages[len(messages)-1].Content,
	}
}

// buildMessages returns a fresh slice with the system prompt at index 0.
// System entries already present in history are dropped.
func buildMessages(history []ai_model.Message, systemPrompt string) []ai_model.Message {
	dst := make([]ai_model.Message, 0, len(history)+1)
	dst = append(dst, ai_model.Message{Role: ai_model.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		if m.Role == ai_model.RoleSystem {
			continue
		}
		dst = append(dst, m)
	}
	return dst
}
