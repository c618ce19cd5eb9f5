package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	promptx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/prompt"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
)

type Config struct {
	Model               string  `envconfig:"MODEL" split_words:"true" required:"true"`
	ClassifierModel     string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	Temperature         float64 `envconfig:"TEMPERATURE" split_words:"true" default:"0.1"`
	MaxCompletionTokens int     `envconfig:"MAX_COMPLETION_TOKENS" split_words:"true" default:"1000"`
	HistoryTurns        int     `envconfig:"HISTORY_TURNS" split_words:"true" default:"8"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenAICapability implements contract.Capability on the OpenAI chat
// completions API with tool calling.
type OpenAICapability struct {
	client  *openaisdk.Client
	cfg     Config
	prompts promptx.Set
}

func NewOpenAICapability(client *openaisdk.Client, cfg Config) (*OpenAICapability, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 8
	}
	return &OpenAICapability{
		client:  client,
		cfg:     cfg,
		prompts: promptx.LoadSet(),
	}, nil
}

func (c *OpenAICapability) Classify(ctx context.Context, text string, history []statex.Turn) (statex.Agent, error) {
	messages := c.buildMessages(c.prompts.Classifier, text, history)

	model := strings.TrimSpace(c.cfg.ClassifierModel)
	if model == "" {
		model = c.cfg.Model
	}

	resp, err := c.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:               openaisdk.ChatModel(model),
		Messages:            messages,
		Temperature:         openaisdk.Float(0),
		MaxCompletionTokens: openaisdk.Int(8),
	})
	if err != nil {
		return statex.AgentUnset, fmt.Errorf("classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return statex.AgentUnset, fmt.Errorf("%w: empty classification response", contractx.ErrClassificationAmbiguous)
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case strings.Contains(answer, "order"):
		return statex.AgentOrder, nil
	case strings.Contains(answer, "information"):
		return statex.AgentInformation, nil
	default:
		return statex.AgentUnset, fmt.Errorf("%w: answer=%q", contractx.ErrClassificationAmbiguous, answer)
	}
}

func (c *OpenAICapability) Respond(
	ctx context.Context,
	agent statex.Agent,
	text string,
	history []statex.Turn,
	tools []*schema.ToolInfo,
) (contractx.CapabilityReply, error) {
	systemPrompt := c.prompts.Information
	if agent == statex.AgentOrder {
		systemPrompt = c.prompts.Order
	}
	messages := c.buildMessages(systemPrompt, text, history)

	toolParams, err := toToolParams(tools)
	if err != nil {
		return contractx.CapabilityReply{}, err
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:               openaisdk.ChatModel(c.cfg.Model),
		Messages:            messages,
		Temperature:         openaisdk.Float(c.cfg.Temperature),
		MaxCompletionTokens: openaisdk.Int(int64(c.cfg.MaxCompletionTokens)),
	}
	if len(toolParams) > 0 {
		params.Tools = toolParams
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return contractx.CapabilityReply{}, fmt.Errorf("respond: %w", err)
	}
	if len(resp.Choices) == 0 {
		return contractx.CapabilityReply{}, errors.New("respond: empty completion response")
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) > 0 {
		call := msg.ToolCalls[0]
		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return contractx.CapabilityReply{}, fmt.Errorf("respond: decode tool args for tool=%s: %w", call.Function.Name, err)
			}
		}
		return contractx.CapabilityReply{
			ToolCall: &contractx.ToolCallRequest{
				Tool: call.Function.Name,
				Args: args,
			},
		}, nil
	}

	return contractx.CapabilityReply{Message: strings.TrimSpace(msg.Content)}, nil
}

func (c *OpenAICapability) buildMessages(systemPrompt, text string, history []statex.Turn) []openaisdk.ChatCompletionMessageParamUnion {
	if len(history) > c.cfg.HistoryTurns {
		history = history[len(history)-c.cfg.HistoryTurns:]
	}

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	for _, turn := range history {
		switch turn.Role {
		case statex.RoleAssistant:
			messages = append(messages, openaisdk.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openaisdk.UserMessage(turn.Text))
		}
	}
	return append(messages, openaisdk.UserMessage(text))
}

func toToolParams(tools []*schema.ToolInfo) ([]openaisdk.ChatCompletionToolParam, error) {
	params := make([]openaisdk.ChatCompletionToolParam, 0, len(tools))
	for _, info := range tools {
		if info == nil {
			continue
		}

		fn := openaisdk.FunctionDefinitionParam{
			Name:        info.Name,
			Description: openaisdk.String(info.Desc),
		}
		if info.ParamsOneOf != nil {
			sch, err := info.ParamsOneOf.ToOpenAPIV3()
			if err != nil {
				return nil, fmt.Errorf("tool=%s: render parameter schema: %w", info.Name, err)
			}
			raw, err := json.Marshal(sch)
			if err != nil {
				return nil, fmt.Errorf("tool=%s: marshal parameter schema: %w", info.Name, err)
			}
			var fnParams openaisdk.FunctionParameters
			if err := json.Unmarshal(raw, &fnParams); err != nil {
				return nil, fmt.Errorf("tool=%s: decode parameter schema: %w", info.Name, err)
			}
			fn.Parameters = fnParams
		}

		params = append(params, openaisdk.ChatCompletionToolParam{Function: fn})
	}
	return params, nil
}
