package onnx

import (
	"fmt"

	"github.com/yalue/onnxruntime_go"
)

// Session wraps a dynamic ONNX Runtime session with a single input and a
// single output, the usual arrangement for detection models.
type Session struct {
	session    *onnxruntime_go.DynamicAdvancedSession
	inputName  string
	outputName string
}

// NewSession loads the model and creates an inference session. The
// runtime environment must already be initialized.
func NewSession(modelPath string, numThreads int) (*Session, error) {
	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model %s: %w", modelPath, err)
	}
	if len(inputs) != 1 || len(outputs) < 1 {
		return nil, fmt.Errorf("model %s: want 1 input, got %d inputs and %d outputs",
			modelPath, len(inputs), len(outputs))
	}

	opts, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer func() {
		if err := opts.Destroy(); err != nil {
			fmt.Printf("Failed to destroy session options: %v", err)
		}
	}()

	if numThreads > 0 {
		if err := opts.SetIntraOpNumThreads(numThreads); err != nil {
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:    session,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
	}, nil
}

// Run feeds one batch tensor through the model and returns the first
// output tensor's data and shape.
func (s *Session) Run(input Tensor) (Tensor, error) {
	if err := input.Validate(); err != nil {
		return Tensor{}, fmt.Errorf("invalid input tensor: %w", err)
	}

	inputTensor, err := onnxruntime_go.NewTensor(onnxruntime_go.NewShape(input.Shape...), input.Data)
	if err != nil {
		return Tensor{}, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			fmt.Printf("Failed to destroy input tensor: %v", err)
		}
	}()

	outputs := []onnxruntime_go.Value{nil}
	if err := s.session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return Tensor{}, fmt.Errorf("inference failed: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if err := out.Destroy(); err != nil {
				fmt.Printf("Failed to destroy output tensor: %v", err)
			}
		}
	}()

	floatTensor, ok := outputs[0].(*onnxruntime_go.Tensor[float32])
	if !ok {
		return Tensor{}, fmt.Errorf("expected float32 output tensor, got %T", outputs[0])
	}

	srcData := floatTensor.GetData()
	if len(srcData) == 0 {
		return Tensor{}, ErrEmptyTensor
	}
	data := make([]float32, len(srcData))
	copy(data, srcData)

	shape := floatTensor.GetShape()
	dims := make([]int64, len(shape))
	copy(dims, shape)

	return Tensor{Data: data, Shape: dims}, nil
}

// Close releases the underlying session.
func (s *Session) Close() error {
	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	return err
}
