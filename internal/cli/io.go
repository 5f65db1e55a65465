package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/swarmcheck/internal/apperrors"
	"github.com/matzehuels/swarmcheck/pkg/swarm"
)

// readProtocols decodes an InterfacingProtocols list from path, or from
// stdin when path is "-". Each element is a [swarm.SwarmProtocolType] in
// external encoding.
func readProtocols(path string) (swarm.InterfacingProtocols, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	var protos swarm.InterfacingProtocols
	if err := json.Unmarshal(data, &protos); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode protocols from %s", path)
	}
	return protos, nil
}

// readProtocol decodes a single [swarm.SwarmProtocolType] from path.
func readProtocol(path string) (swarm.SwarmProtocolType, error) {
	data, err := readInput(path)
	if err != nil {
		return swarm.SwarmProtocolType{}, err
	}
	var proto swarm.SwarmProtocolType
	if err := json.Unmarshal(data, &proto); err != nil {
		return swarm.SwarmProtocolType{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode protocol from %s", path)
	}
	return proto, nil
}

// readSubscription decodes a [swarm.Subscription] from path. An empty path
// returns an empty subscription, the caller-supplied seed // inference strategies all start from.
func readSubscription(path string) (swarm.Subscription, error) {
	if path == "" {
		return swarm.NewSubscription(), nil
	}
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	sub := swarm.NewSubscription()
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode subscription from %s", path)
	}
	return sub, nil
}

// readMachine decodes a [swarm.MachineType] from path, the caller-supplied
// machine check_composed_projection and projection_information compare or
// adapt against.
func readMachine(path string) (swarm.MachineType, error) {
	data, err := readInput(path)
	if err != nil {
		return swarm.MachineType{}, err
	}
	var mt swarm.MachineType
	if err := json.Unmarshal(data, &mt); err != nil {
		return swarm.MachineType{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode machine from %s", path)
	}
	return mt, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return data, nil
}

// nopCloser wraps an io.Writer with a no-op Close, so os.Stdout can satisfy
// io.WriteCloser for "-o" output.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for path, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeJSON writes v as indented JSON to path (or stdout).
func writeJSON(v any, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
