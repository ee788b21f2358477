package engine

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	enginenode "github.com/dermaluz/concierge/agent/nodes"
)

func (e *Engine) compileProcessTurnGraph(
	ctx context.Context,
) (compose.Runnable[enginenode.GraphInput, enginenode.GraphOutput], error) {
	graph := compose.NewGraph[enginenode.GraphInput, enginenode.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in enginenode.GraphInput) (*enginenode.GraphState, error) {
			return enginenode.ValidateRequest(in, e.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_or_create_state",
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.LoadOrCreateState(ctx, in, e.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_or_create_state: %w", err)
	}

	if err := graph.AddLambdaNode(enginenode.NodeAssistantTurn,
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.AssistantTurn(ctx, in, e.assistant, e.prompts, e.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node assistant_turn: %w", err)
	}

	if err := graph.AddLambdaNode(enginenode.NodeQuizTurn,
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.QuizTurn(ctx, in, e.quiz, e.prompts, e.tools)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node quiz_turn: %w", err)
	}

	if err := graph.AddLambdaNode("tool_cleanup",
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.ToolCleanup(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node tool_cleanup: %w", err)
	}

	if err := graph.AddLambdaNode(enginenode.NodeCompactHistory,
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.CompactHistory(ctx, in, e.digester)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compact_history: %w", err)
	}

	if err := graph.AddLambdaNode(enginenode.NodeSaveState,
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (*enginenode.GraphState, error) {
			return enginenode.SaveState(ctx, in, e.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_state: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *enginenode.GraphState) (enginenode.GraphOutput, error) {
			return enginenode.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	modeBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *enginenode.GraphState) (string, error) {
			return enginenode.RouteMode(in)
		},
		map[string]bool{
			enginenode.NodeAssistantTurn: true,
			enginenode.NodeQuizTurn:      true,
		},
	)
	if err := graph.AddBranch("load_or_create_state", modeBranch); err != nil {
		return nil, fmt.Errorf("add mode branch: %w", err)
	}

	compactBranch := compose.NewGraphBranch(
		func(ctx context.Context, in *enginenode.GraphState) (string, error) {
			return enginenode.NeedsCompaction(in)
		},
		map[string]bool{
			enginenode.NodeCompactHistory: true,
			enginenode.NodeSaveState:      true,
		},
	)
	if err := graph.AddBranch("tool_cleanup", compactBranch); err != nil {
		return nil, fmt.Errorf("add compaction branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_or_create_state"},
		{enginenode.NodeAssistantTurn, "tool_cleanup"},
		{enginenode.NodeQuizTurn, "tool_cleanup"},
		{enginenode.NodeCompactHistory, enginenode.NodeSaveState},
		{enginenode.NodeSaveState, "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx,
		compose.WithGraphName("engine.process_turn"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
	if err != nil {
		return nil, fmt.Errorf("compile engine graph: %w", err)
	}
	return runner, nil
}
