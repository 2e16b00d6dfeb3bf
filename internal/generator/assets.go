package generator

import (
	"context"
	"errors"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
)

const codeAssetCopy = "ASSET_COPY_FAILED"

// copyAssets mirrors every regular file of static into the output directory
// byte for byte. A nil or missing static tree copies nothing.
func copyAssets(ctx context.Context, static fs.FS, writer artifactWriter, metrics *buildMetrics) (int, error) {
	if static == nil {
		return 0, nil
	}

	copied := 0
	err := fs.WalkDir(static, ".", func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if name == "." && errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		file, err := static.Open(name)
		if err != nil {
			return err
		}
		err = writer.WriteFile(ctx, writeFileRequest{
			Path:     name,
			Content:  file,
			Category: categoryAsset,
			Source:   name,
		})
		closeErr := file.Close()
		if err != nil {
			return err
		}
		if closeErr != nil {
			return closeErr
		}

		copied++
		metrics.assetCopied()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return copied, err
		}
		return copied, goerrors.Wrap(err, goerrors.CategoryInternal, "static asset copy failed").
			WithTextCode(codeAssetCopy)
	}
	return copied, nil
}
