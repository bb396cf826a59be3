package entity

type ToolName string

const (
	ToolHTTP  ToolName = "http"
	ToolSlack ToolName = "slack"
)

func (t ToolName) String() string {
	return string(t)
}

type ToolDescriptor struct {
	Name        ToolName `json:"name"`
	Description string   `json:"description"`
}

// ToolResult carries either Result (Success) or Error, never both.
type ToolResult struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ToolSuccess(result any) ToolResult {
	return ToolResult{Success: true, Result: result}
}

func ToolFailure(err error) ToolResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return ToolResult{Success: false, Error: msg}
}
