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

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/diff"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔭 PlanOperation computes and renders every pending change without writing
// a single byte to any target.
type PlanOperation struct {
	opts Options
}

// 🏭 NewPlanOperation creates a new plan operation
func NewPlanOperation(opts Options) *PlanOperation {
	return &PlanOperation{opts: opts}
}

// Name implements Operation.Name
func (op *PlanOperation) Name() string {
	return "plan"
}

// Execute implements Operation.Execute
func (op *PlanOperation) Execute(ctx context.Context) error {
	if err := op.opts.validate(); err != nil {
		return err
	}

	files, err := expandTargets(op.opts.Root, op.opts.Config.Targets)
	if err != nil {
		return err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("targets", len(files)).Msg("planning patch rules")

	planned := 0
	for _, path := range files {
		if err := op.planFile(ctx, path); err != nil {
			return err
		}
		planned++
	}

	op.opts.Reporter.Summary(planned, 0)
	return nil
}

// planFile runs the locate+apply stages in memory and renders the diff
func (op *PlanOperation) planFile(ctx context.Context, path string) error {
	doc, err := document.Load(ctx, path)
	if err != nil {
		op.opts.Reporter.FileFailed(status.Outcome{Path: path, Err: err})
		return errors.Errorf("loading %s: %w", path, err)
	}

	content := doc
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
			return errors.Errorf("computing patch for %s: %w", path, err)
		}

		content = document.FromBytes(path, result.Output)
		op.opts.Reporter.FilePatched(status.Outcome{
			Path:          path,
			Rule:          rule.Name,
			LinesConsumed: result.LinesConsumed,
			LinesInserted: result.LinesInserted,
			DryRun:        true,
		})
	}

	if diff.Changed(doc.Text(), content.Text()) {
		op.opts.Reporter.Preview(path, diff.Preview(doc.Text(), content.Text()))
	}
	return nil
}
