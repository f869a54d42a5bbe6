package engine

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"wormhole/internal/logger"
	"wormhole/pkg/audio"
	"wormhole/pkg/config"
)

const (
	framesPerBuffer = 1024
	numChannels     = 2
)

// AudioEngine plays background music on the default output device.
// Playback runs on PortAudio's thread and never blocks rendering.
type AudioEngine struct {
	stream *portaudio.Stream
	player *audio.Player
	logger *logger.Logger
}

// NewAudioEngine decodes the configured music and starts the output stream
func NewAudioEngine(cfg config.AudioConfig, log *logger.Logger) (*AudioEngine, error) {
	clip, err := audio.LoadFile(cfg.Music)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %s: %d frames, %d channels, %d Hz", cfg.Music, clip.Frames(), clip.Channels, clip.SampleRate)

	// Initialize PortAudio
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	player := audio.NewPlayer(clip, numChannels, float32(cfg.Volume), cfg.Loop)
	stream, err := portaudio.OpenDefaultStream(0, numChannels, float64(clip.SampleRate), framesPerBuffer, player.Fill)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	player.Play()
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	return &AudioEngine{
		stream: stream,
		player: player,
		logger: log,
	}, nil
}

// Shutdown stops playback and releases the device
func (ae *AudioEngine) Shutdown() {
	ae.player.Stop()
	if err := ae.stream.Stop(); err != nil {
		ae.logger.Warnf("Failed to stop audio stream: %v", err)
	}
	if err := ae.stream.Close(); err != nil {
		ae.logger.Warnf("Failed to close audio stream: %v", err)
	}
	if err := portaudio.Terminate(); err != nil {
		ae.logger.Warnf("Failed to terminate PortAudio: %v", err)
	}
}
