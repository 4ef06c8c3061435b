// Package cv 提供模板库与模板匹配功能
//
// 所有匹配都在单通道灰度图上进行，使用归一化相关系数 (TM_CCOEFF_NORMED)。
//
// 基本用法:
//
//	tmpl, err := cv.LoadTemplate("images/challenge.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tmpl.Close()
//
//	result, err := cv.Locate(screen, tmpl, 0.85)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result != nil {
//	    fmt.Printf("找到位置: %v, 置信度 %.3f\n", result.Box, result.Confidence)
//	}
package cv
