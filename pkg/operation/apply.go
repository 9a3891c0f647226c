// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🚀 ApplyOperation patches every target file in place. Per file the pipeline
// is strictly linear: any locate failure aborts before a single byte is
// written.
type ApplyOperation struct {
	opts    Options
	patched atomic.Int64
}

// 🏭 NewApplyOperation creates a new apply operation
func NewApplyOperation(opts Options) *ApplyOperation {
	return &ApplyOperation{opts: opts}
}

// Name implements Operation.Name
func (op *ApplyOperation) Name() string {
	return "apply"
}

// Execute implements Operation.Execute
func (op *ApplyOperation) Execute(ctx context.Context) error {
	if err := op.opts.validate(); err != nil {
		return err
	}

	files, err := expandTargets(op.opts.Root, op.opts.Config.Targets)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("targets", len(files)).Bool("async", op.opts.Config.Async).Msg("applying patch rules")

	if op.opts.Config.Async {
		g, gctx := errgroup.WithContext(ctx)
		for _, path := range files {
			path := path
			g.Go(func() error {
				return op.patchFile(gctx, path)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, path := range files {
			if err := op.patchFile(ctx, path); err != nil {
				return err
			}
		}
	}

	op.opts.Reporter.Summary(int(op.patched.Load()), 0)
	return nil
}

// patchFile runs the whole pipeline for one file. Outcomes are reported only
// after the rewritten content reached disk.
func (op *ApplyOperation) patchFile(ctx context.Context, path string) error {
	doc, err := document.Load(ctx, path)
	if err != nil {
		op.opts.Reporter.FileFailed(status.Outcome{Path: path, Err: err})
		return errors.Errorf("loading %s: %w", path, err)
	}

	content := doc
	var outcomes []status.Outcome
	for _, rule := range op.opts.Config.Rules {
		strategy, err := strategyFor(rule)
		if err != nil {
			return errors.Errorf("rule %q: %w", rule.Name, err)
		}

		region, err := strategy.Locate(ctx, content)
		if err != nil {
			op.opts.Reporter.FileFailed(status.Outcome{Path: path, Rule: rule.Name, Err: err})
			return errors.Errorf("locating region for rule %q in %s: %w", rule.Name, path, err)
		}

		result, err := patch.Apply(ctx, content, region, rule.Replacement)
		if err != nil {
			op.opts.Reporter.FileFailed(status.Outcome{Path: path, Rule: rule.Name, Err: err})
			return errors.Errorf("patching %s: %w", path, err)
		}

		content = document.FromBytes(path, result.Output)
		outcomes = append(outcomes, status.Outcome{
			Path:          path,
			Rule:          rule.Name,
			LinesConsumed: result.LinesConsumed,
			LinesInserted: result.LinesInserted,
		})
	}

	if err := document.Write(ctx, path, content.Raw); err != nil {
		op.opts.Reporter.FileFailed(status.Outcome{Path: path, Err: err})
		return errors.Errorf("writing %s: %w", path, err)
	}

	for _, o := range outcomes {
		op.opts.Reporter.FilePatched(o)
	}
	op.patched.Add(1)
	return nil
}
