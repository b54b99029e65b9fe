package commitgraph

import (
	fixtures "github.com/go-git/go-git-fixtures/v5"
	commitgraph "github.com/gitobj/gitobj/plumbing/format/commitgraph/v2"
)

type noGenerationDataIndex struct {
	commitgraph.Index
}

func (f *noGenerationDataIndex) GetCommitDataByIndex(i uint32) (*commitgraph.CommitData, error) {
	data, err := f.Index.GetCommitDataByIndex(i)
	if err != nil {
		return data, err
	}
	return &commitgraph.CommitData{
		TreeHash:      data.TreeHash,
		ParentIndexes: data.ParentIndexes,
		ParentHashes:  data.ParentHashes,
		Generation:    data.Generation,
		GenerationV2:  0,
		When:          data.When,
	}, err
}

func (f *noGenerationDataIndex) HasGenerationV2() bool {
	return false
}

func (s *CommitNodeSuite) assertCommitDataEqual(left, right *commitgraph.CommitData) {
	if left == right {
		return
	}

	s.Require().NotNil(left)
	s.Require().NotNil(right)
	s.Equal(left.TreeHash, right.TreeHash)
	s.Equal(left.ParentIndexes, right.ParentIndexes)
	s.Equal(left.ParentHashes, right.ParentHashes)
	s.Equal(left.Generation, right.Generation)
	s.Equal(left.GenerationV2, right.GenerationV2)
	s.Equal(left.When.Unix(), right.When.Unix())
}

func (s *CommitNodeSuite) TestCreateCommitNodeGraph() {
	f := fixtures.ByTag("commit-graph-chain-2").One()

	storer := unpackRepository(f)

	index, err := commitgraph.OpenChainOrFileIndex(storer.Filesystem())
	s.NoError(err)

	newIndex, err := CreateCommitGraph(storer, index, CreateCommitNodeGraphOptions{})
	s.NoError(err)

	appendIndex, err := CreateCommitGraph(storer, index, CreateCommitNodeGraphOptions{Append: true})
	s.NoError(err)

	appendIndexNoGeneration, err := CreateCommitGraph(storer, &noGenerationDataIndex{index}, CreateCommitNodeGraphOptions{Append: true})
	s.NoError(err)

	chainIndex, err := CreateCommitGraph(storer, index, CreateCommitNodeGraphOptions{Chain: true})
	s.NoError(err)

	chainIndexNoGeneration, err := CreateCommitGraph(storer, &noGenerationDataIndex{index}, CreateCommitNodeGraphOptions{Chain: true})
	s.NoError(err)

	fullIndex, err := CreateCommitGraph(storer, nil, CreateCommitNodeGraphOptions{})
	s.NoError(err)

	s.Equal(len(index.Hashes()), len(newIndex.Hashes()))

	hashesInNewIndex := make([]string, newIndex.MaximumNumberOfHashes())
	for _, hash := range newIndex.Hashes() {
		nidx, err := newIndex.GetIndexByHash(hash)
		s.NoError(err)
		hashesInNewIndex[nidx] = hash.String()
		_, err = appendIndex.GetIndexByHash(hash)
		s.NoError(err)
		_, err = appendIndexNoGeneration.GetIndexByHash(hash)
		s.NoError(err)
		_, err = chainIndex.GetIndexByHash(hash)
		s.NoError(err)
		_, err = chainIndexNoGeneration.GetIndexByHash(hash)
		s.NoError(err)
	}

	hashesInIndex := make([]string, index.MaximumNumberOfHashes())
	for _, hash := range index.Hashes() {
		oidx, err := index.GetIndexByHash(hash)
		s.NoError(err)
		hashesInIndex[oidx] = hash.String()
		_, err = appendIndex.GetIndexByHash(hash)
		s.NoError(err)
		chainIdx, err := chainIndex.GetIndexByHash(hash)
		s.NoError(err)
		s.Equal(oidx, chainIdx)
	}

	hashesInFullIndex := make([]string, fullIndex.MaximumNumberOfHashes())
	for _, hash := range fullIndex.Hashes() {
		fidx, err := fullIndex.GetIndexByHash(hash)
		s.NoError(err)
		hashesInFullIndex[fidx] = hash.String()
	}

	s.Equal(hashesInFullIndex, hashesInNewIndex)

	for _, hash := range newIndex.Hashes() {
		fidx, err := fullIndex.GetIndexByHash(hash)
		s.NoError(err)
		nidx, err := newIndex.GetIndexByHash(hash)
		s.NoError(err)
		newData, err := newIndex.GetCommitDataByIndex(nidx)
		s.NoError(err)
		fullData, err := fullIndex.GetCommitDataByIndex(fidx)
		s.NoError(err)
		s.assertCommitDataEqual(newData, fullData)
		chainIdx, err := chainIndexNoGeneration.GetIndexByHash(hash)
		s.NoError(err)
		dataChained, err := chainIndexNoGeneration.GetCommitDataByIndex(chainIdx)
		s.NoError(err)
		s.assertCommitDataEqual(newData, dataChained)
	}
	for _, hash := range appendIndex.Hashes() {
		idx, err := appendIndex.GetIndexByHash(hash)
		s.NoError(err)
		data, err := appendIndex.GetCommitDataByIndex(idx)
		s.NoError(err)
		noGenIdx, err := appendIndexNoGeneration.GetIndexByHash(hash)
		s.NoError(err)
		dataNoGen, err := appendIndexNoGeneration.GetCommitDataByIndex(noGenIdx)
		s.NoError(err)
		s.assertCommitDataEqual(data, dataNoGen)
	}
}
