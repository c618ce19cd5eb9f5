package turnnode

import (
	"fmt"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Message == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply is empty", contractx.ErrValidation)
	}
	return GraphOutput{Reply: in.Message, Order: in.Order}, nil
}
