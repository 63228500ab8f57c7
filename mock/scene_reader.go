package mock_generator

import (
	"ad-agent-api/application/ports/outbound"
	"encoding/json"
	"os"
)

type SceneReader interface {
	Read(fileName string) ([]MockScene, error)
}

type fileSceneReader struct {
	logger outbound.LoggerPort
}

func NewFileSceneReader(logger outbound.LoggerPort) SceneReader {
	return &fileSceneReader{
		logger: logger,
	}
}

func (f *fileSceneReader) Read(fileName string) ([]MockScene, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			f.logger.Error(err, "failed to close file")
		}
	}(file)

	var scenes []MockScene
	if err := json.NewDecoder(file).Decode(&scenes); err != nil {
		f.logger.Error(err, "failed to decode json")
		return nil, err
	}

	return scenes, nil
}
