package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// getResultFolder returns <results>/<data file name>_<strategy name>, for example
// results/AAPL_2020_SMA_Cross_50_200.
func getResultFolder(resultsFolder string, dataPath string, strategyName string) string {
	dataFileName := strings.TrimSuffix(filepath.Base(dataPath), filepath.Ext(dataPath))

	return filepath.Join(resultsFolder, dataFileName+"_"+strategyName)
}

// getResultFolders returns the result folder of every data path. Paths that would
// share a folder (AAPL.csv next to AAPL.parquet, or one file name in two
// directories) get their data path index appended, so no two runs write to the
// same folder.
func getResultFolders(resultsFolder string, dataPaths []string, strategyName string) []string {
	folders := make([]string, len(dataPaths))
	counts := make(map[string]int, len(dataPaths))

	for i, dataPath := range dataPaths {
		folders[i] = getResultFolder(resultsFolder, dataPath, strategyName)
		counts[folders[i]]++
	}

	for i, folder := range folders {
		if counts[folder] > 1 {
			folders[i] = fmt.Sprintf("%s_%d", folder, i)
		}
	}

	return folders
}
