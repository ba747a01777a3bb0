package inference

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	"github.com/TheNopenator/EcoVision/pkg/detector"
	websocketPkg "github.com/TheNopenator/EcoVision/pkg/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// remoteEngine ships JPEG frames to a model server and expects a JSON tensor
// {"shape": [...], "data": [...]} in reply.
type remoteEngine struct {
	client  websocketPkg.IWebsocket
	quality int
}

func newRemote(cfg Config, log *logrus.Logger) (Engine, error) {
	if cfg.RemoteURL == "" {
		return nil, errors.New("remote URL is required")
	}
	return NewRemote(websocketPkg.NewClient(cfg.RemoteURL, cfg.RemoteTimeout, log), cfg.JPEGQuality), nil
}

func NewRemote(client websocketPkg.IWebsocket, quality int) Engine {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &remoteEngine{client: client, quality: quality}
}

func (e *remoteEngine) Infer(ctx context.Context, img image.Image) (detector.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return detector.Tensor{}, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return detector.Tensor{}, errors.Wrap(err, "encode frame")
	}

	reply, err := e.client.Exchange(ctx, buf.Bytes())
	if err != nil {
		return detector.Tensor{}, errors.Wrap(err, "model server exchange")
	}

	var tensor detector.Tensor
	if err := jsoniter.Unmarshal(reply, &tensor); err != nil {
		return detector.Tensor{}, errors.Wrap(err, "decode model server reply")
	}

	return tensor, nil
}

func (e *remoteEngine) Close() error {
	e.client.Close()
	return nil
}
