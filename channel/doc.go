// Package channel turns a regression fit over the most recent samples of a
// series into a regression channel: a center line plus upper and lower bands
// placed a configurable number of standard deviations away.
//
//	calc, err := channel.NewCalculator(channel.Config{
//	    Kind:       regression.KindLinear,
//	    Period:     100,
//	    Deviations: 2,
//	})
//	if err != nil {
//	    return err
//	}
//	ch, err := calc.Compute(closes)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(ch.Upper[ch.Len()-1], ch.Position(closes[len(closes)-1]))
package channel
