package indicator

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/stretchr/testify/suite"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestRecurrence() {
	ema := EMAOfCloses([]float64{10, 20, 30}, 3)

	suite.Equal(0, ema.LeadingUndefined())
	suite.InDelta(10.0, ema[0].Unwrap(), 1e-12)
	suite.InDelta(15.0, ema[1].Unwrap(), 1e-12)
	suite.InDelta(22.5, ema[2].Unwrap(), 1e-12)
}

func (suite *EMATestSuite) TestSeededByFirstDefinedValue() {
	none := optional.None[float64]()
	ema := EMA(types.Series{none, none, optional.Some(4.0), optional.Some(8.0)}, 1)

	suite.Equal(2, ema.LeadingUndefined())
	suite.Equal(4.0, ema[2].Unwrap())
	suite.Equal(8.0, ema[3].Unwrap())
}

func (suite *EMATestSuite) TestUndefinedGapKeepsState() {
	ema := EMA(types.Series{optional.Some(10.0), optional.None[float64](), optional.Some(20.0)}, 3)

	suite.Equal(10.0, ema[0].Unwrap())
	suite.True(ema[1].IsNone())
	suite.InDelta(15.0, ema[2].Unwrap(), 1e-12)
}

func (suite *EMATestSuite) TestInvalidSpan() {
	ema := EMAOfCloses([]float64{1, 2}, 0)
	suite.Equal(2, ema.LeadingUndefined())
}
