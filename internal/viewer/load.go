package viewer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/assets"
	"github.com/Faultbox/portal-viewer/internal/engine/scene"
	"github.com/Faultbox/portal-viewer/internal/logger"
)

// LoadModel starts loading ref with l. The render loop keeps running while
// the load is in flight; the result is attached between ticks.
func (v *Viewer) LoadModel(ctx context.Context, l AssetLoader, ref string) {
	logger.Info("loading model", zap.String("ref", ref))
	l.Load(ctx, ref, func(root *scene.Node, err error) {
		v.loadErr = v.attachModel(ref, root, err)
	})
}

// attachModel finds the portal child of root, swaps its material and adds
// root to the scene. A model without the child is rejected and the scene
// is left as it was.
func (v *Viewer) attachModel(ref string, root *scene.Node, err error) error {
	if err != nil {
		var le *assets.LoadError
		if errors.As(err, &le) {
			logger.Error("model load failed",
				zap.String("ref", le.Ref),
				zap.String("op", le.Op),
				zap.Error(le.Err))
		} else {
			logger.Error("model load failed", zap.String("ref", ref), zap.Error(err))
		}
		return err
	}
	if root == nil {
		err := &assets.LoadError{Ref: ref, Op: "decode", Err: errors.New("empty model")}
		logger.Error("model load failed", zap.String("ref", ref), zap.Error(err))
		return err
	}

	target := root.FindChild(v.portalNode)
	if target == nil {
		perr := &PreconditionError{Ref: ref, Node: v.portalNode}
		logger.Error("model rejected", zap.Error(perr))
		return perr
	}

	target.SetMaterial(v.material.Shader())
	v.scene.AddNode(root)
	v.model = root

	logger.Info("model attached",
		zap.String("ref", ref),
		zap.String("root", root.Name),
		zap.Int("nodes", root.Count()))
	return nil
}
