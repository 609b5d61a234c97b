package selectors

import (
	"context"
	"runtime"

	"github.com/Masterminds/semver"
	"github.com/crytic/selectors/compilation/types"
	"github.com/crytic/selectors/logging"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors/config"
	"github.com/crytic/selectors/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ArtifactSource provides the compiled contract artifacts selectors are extracted from.
type ArtifactSource interface {
	// FullyQualifiedNames returns the fully-qualified name of every contract, in discovery order.
	FullyQualifiedNames() ([]string, error)

	// ReadArtifact reads the artifact of the contract with the provided fully-qualified name.
	ReadArtifact(qualifiedName string) (*types.ContractArtifact, error)
}

// Engine extracts, filters, orders and writes the function selectors of the contracts in an ArtifactSource, one
// output file per group.
type Engine struct {
	// source describes the artifacts selectors are extracted from.
	source ArtifactSource

	// logger describes the Engine's logger.
	logger *logging.Logger
}

// extractedSelector describes one function of a contract which survived the selector filter.
type extractedSelector struct {
	selector string
	label    string
}

// extractedContract describes the selectors of one contract which survived the contract filters, in ABI declaration
// order.
type extractedContract struct {
	contractName string
	selectors    []extractedSelector
}

// groupPipeline describes the compiled configuration of one group.
type groupPipeline struct {
	group           *config.SelectorGroupConfig
	contractFilter  *ContractFilter
	selectorFilter  *SelectorFilter
	resolver        Resolver
	compilerVersion *semver.Constraints
}

// NewEngine returns a new Engine reading artifacts from the provided source.
func NewEngine(source ArtifactSource) *Engine {
	return &Engine{
		source: source,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.SELECTORS_SERVICE),
	}
}

// ExportGroup validates a single group, then extracts its selectors and writes its output file. The written Result
// is returned.
func (e *Engine) ExportGroup(ctx context.Context, group *config.SelectorGroupConfig) (*Result, error) {
	if group == nil {
		return nil, &ConfigurationError{Group: 0, Err: errors.New("group is empty")}
	}
	if err := group.Validate(0); err != nil {
		return nil, err
	}
	return e.exportGroup(ctx, 0, group)
}

// ExportGroups validates every group before any artifact is read, then exports the groups concurrently. Groups do not
// share state, so a failing group does not affect the output of the others. The first error encountered is returned
// along with the Result of every group, which is nil for failed groups.
func (e *Engine) ExportGroups(ctx context.Context, groups config.GroupConfigs) ([]*Result, error) {
	if err := groups.Validate(); err != nil {
		return nil, err
	}
	indexes := make([]int, len(groups))
	for i := range groups {
		indexes[i] = i
	}
	return e.exportGroups(ctx, groups, indexes)
}

// ExportOnCompile exports the groups configured to run after compilation. When coverageRunning is true, compilation
// was done for coverage instrumentation and nothing is exported.
func (e *Engine) ExportOnCompile(ctx context.Context, groups config.GroupConfigs, coverageRunning bool) ([]*Result, error) {
	if coverageRunning {
		e.logger.Info("Skipping function selector export while coverage is running")
		return nil, nil
	}
	if err := groups.Validate(); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(groups))
	for i, group := range groups {
		if group.RunOnCompile {
			indexes = append(indexes, i)
		}
	}
	if len(indexes) == 0 {
		e.logger.Debug("No function selector group runs on compile")
		return nil, nil
	}
	return e.exportGroups(ctx, groups, indexes)
}

// exportGroups concurrently exports the groups at the provided indexes, which must already be validated.
func (e *Engine) exportGroups(ctx context.Context, groups config.GroupConfigs, indexes []int) ([]*Result, error) {
	results := make([]*Result, len(indexes))
	var g errgroup.Group
	for i, index := range indexes {
		g.Go(func() error {
			result, err := e.exportGroup(ctx, index, groups[index])
			if err != nil {
				e.logger.Error("Function selector group ", index, " failed", err)
				return err
			}
			results[i] = result
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

// exportGroup runs the pipeline of one validated group and writes its output file.
func (e *Engine) exportGroup(ctx context.Context, index int, group *config.SelectorGroupConfig) (*Result, error) {
	pipeline, err := newGroupPipeline(index, group)
	if err != nil {
		return nil, err
	}

	// Contract names are filtered before any artifact is read
	names, err := e.source.FullyQualifiedNames()
	if err != nil {
		return nil, &ArtifactReadError{Err: err}
	}
	candidates := make([]string, 0, len(names))
	for _, name := range names {
		if pipeline.contractFilter.Includes(name) {
			candidates = append(candidates, name)
		} else {
			e.logger.Trace("Excluded contract ", name, " from function selector group ", index)
		}
	}

	// Artifacts are read and hashed concurrently, then aggregated in discovery order
	contracts := make([]*extractedContract, len(candidates))
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range candidates {
		g.Go(func() error {
			if utils.CheckContextDone(groupCtx) {
				return groupCtx.Err()
			}
			contract, err := e.extractContract(pipeline, name)
			if err != nil {
				return err
			}
			contracts[i] = contract
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	aggregator := NewAggregator(group, e.logger)
	for _, contract := range contracts {
		if contract == nil {
			continue
		}
		// A contract whose selectors were all skipped still gets an entry
		aggregator.AddContract(contract.contractName)
		for _, extracted := range contract.selectors {
			if err = aggregator.Add(contract.contractName, extracted.selector, extracted.label); err != nil {
				return nil, err
			}
		}
	}
	result, err := aggregator.Result()
	if err != nil {
		return nil, err
	}
	if group.OrderedByValue {
		result = Order(result)
	}

	outputFile := group.OutputFile()
	if err = WriteResult(outputFile, result, group.Pretty); err != nil {
		return nil, err
	}
	e.logger.Info("Function selectors have been written to ", colors.Bold, outputFile, colors.Reset)
	return result, nil
}

// extractContract reads one contract and resolves the selectors of its functions. Contracts outside the compiler
// version constraint or without functions yield nil.
func (e *Engine) extractContract(pipeline *groupPipeline, qualifiedName string) (*extractedContract, error) {
	artifact, err := e.source.ReadArtifact(qualifiedName)
	if err != nil {
		return nil, &ArtifactReadError{Name: qualifiedName, Err: err}
	}

	if pipeline.compilerVersion != nil {
		// Contracts without metadata (e.g. interfaces) carry no version and are kept
		if version := artifact.CompilerVersion(); version != nil && !pipeline.compilerVersion.Check(version) {
			e.logger.Debug("Skipping contract ", qualifiedName, " compiled with solc ", version.String())
			return nil, nil
		}
	}

	if !artifact.HasFunctions() {
		e.logger.Debug("Skipping contract ", qualifiedName, " which declares no functions")
		return nil, nil
	}

	functions := artifact.Functions()
	contract := &extractedContract{
		contractName: artifact.ContractName,
		selectors:    make([]extractedSelector, 0, len(functions)),
	}
	for _, function := range functions {
		signature := BuildSignature(function)
		selector, err := pipeline.resolver.Resolve(signature)
		if err != nil {
			return nil, err
		}
		if pipeline.selectorFilter.Skips(selector) {
			continue
		}
		contract.selectors = append(contract.selectors, extractedSelector{
			selector: selector,
			label:    BuildLabel(function, pipeline.group.IncludeParameterTypesInLabel),
		})
	}
	return contract, nil
}

// newGroupPipeline compiles the filters, resolver and version constraint of a validated group.
func newGroupPipeline(index int, group *config.SelectorGroupConfig) (*groupPipeline, error) {
	contractFilter, err := NewContractFilter(group.IncludePatterns, group.ExcludePatterns)
	if err != nil {
		return nil, &ConfigurationError{Group: index, Field: "only", Err: err}
	}
	resolver, err := NewResolver(group.SelectorEncoding)
	if err != nil {
		return nil, &ConfigurationError{Group: index, Field: "selectorEncoding", Value: group.SelectorEncoding, Err: err}
	}
	compilerVersion, err := group.CompilerVersionConstraint()
	if err != nil {
		return nil, &ConfigurationError{Group: index, Field: "compilerVersion", Value: group.CompilerVersion, Err: err}
	}

	return &groupPipeline{
		group:           group,
		contractFilter:  contractFilter,
		selectorFilter:  NewSelectorFilter(group.NormalizedSkipSelectors()),
		resolver:        resolver,
		compilerVersion: compilerVersion,
	}, nil
}
